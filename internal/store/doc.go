// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

// Package store owns the PostgreSQL connection pool and the embedded schema
// migrations for the credential table.
package store
