// Package shipper delivers emitted observations to their destination, either
// the ingestion API over HTTP or JSON status files on disk.
package shipper
