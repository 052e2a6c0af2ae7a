// Package questions wires the reconciliation engine to the question bank.
//
// Two keyed tables are compared: the question bank (answer key per
// QuestionId) and the model results table (CorrectOption per QuestionId).
// Either side can alternatively be served from a CSV object in storage,
// which is also how new question banks are imported into the database.
//
// The package provides:
//   - DBSource / CSVSource: paged record sources for the core engine
//   - Importer: CSV question bank import into the questions table
//   - Service: runs reconciliations, with report caching
//   - Handler / Feature: the HTTP surface
package questions
