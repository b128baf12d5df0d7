// Package postgres provides PostgreSQL implementations of the store
// interfaces. Each store accepts a store.DBTX, so the same code runs against
// a plain connection or inside a transaction handed down by the service
// layer.
package postgres
