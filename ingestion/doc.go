// Package ingestion loads knowledge-base documents into a document store.
//
// The Ingester turns text files and fetched pages into documents:
//   - IngestDir reads every .txt and .md file in a directory concurrently
//   - IngestPage adds a page returned by the fetcher
//   - Watch keeps a directory in sync as files are created or modified
//
// A file's source citation is the URL recorded in its sidecar by the
// fetcher, or the file path. Documents are keyed by source, so ingesting
// the same file again replaces it.
package ingestion
