// Package reembed regenerates the stored vectors of every ingestion record
// with the currently configured embedding model.
//
// Switching embedding models invalidates every vector in the database, since
// similarity scores are only meaningful between vectors from the same model.
// The reembedder walks all collections, embeds record text in batches, and
// upserts the records back with fresh normalized vectors. Progress is
// reported to a configurable writer, and all remote calls run through the
// shared retry executor.
package reembed
