// Package reembed rebuilds the vectors of a document collection with the
// currently configured embedder.
//
// Switching between the local and hosted embedders leaves stored vectors
// that no longer compare with new queries. A Reembedder walks the
// collection in batches, embeds and normalizes each document again and
// stamps the collection with the new embedder and dimension. Nothing is
// retried: the first failed batch stops the run.
package reembed
