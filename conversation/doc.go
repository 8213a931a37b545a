// Package conversation provides ContextStore implementations: a volatile
// in-memory store for tests and single-process deployments, a LibSQL-backed
// store for embedded durable persistence, and a DynamoDB-backed store for
// serverless deployments. All three honor the same read-modify-write
// contract per conversation key.
package conversation
