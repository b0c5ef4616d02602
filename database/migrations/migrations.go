// Package migrations registers the schema history of the application.
// Each file calls migration.Register from init(); importing the package
// for its side effects makes them available to `foodhub migrate`.
package migrations
