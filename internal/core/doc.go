// Package core provides the server-side business logic for the site tables.
//
// This package owns the table registry and the persistence of rows, independent
// of any transport. The web package exposes it over HTTP and the editor package
// consumes that HTTP surface from the client side.
//
// # Table Registry
//
// Tables are registered at init time using [Register]. Each [TableDefinition]
// names the tab it is shown on and the fields a row carries:
//
//	core.Register(TableDefinition{
//	    Info: TableInfo{Key: "englishMangaAggregators", Tab: "manga", Title: "Aggregators"},
//	    FieldSpecs: []FieldSpec{
//	        {Name: "siteName", Label: "Name", Required: true},
//	        {Name: "siteAddresses", Label: "Addresses", Type: FieldAddressList, Required: true},
//	    },
//	})
//
// # Statuses
//
// Mutations answer with an application-level [Status] rather than an HTTP error.
// The status text is written verbatim as the response body, so clients compare
// the body against the Status constants:
//
//   - StatusTableNotFound: the table key is not registered
//   - StatusNoData: the request carried no JSON row
//   - StatusIDNotFound: the row id is missing or unknown
//   - StatusUpdated, StatusInserted, StatusDeleted: success
//
// Infrastructure failures (connection loss, SQL errors) are returned as Go errors
// and surface as non-200 responses.
//
// # Audit Logging
//
// Every successful mutation writes a structured audit record with the row
// before and after the change. See [Service.RecordChange].
package core
