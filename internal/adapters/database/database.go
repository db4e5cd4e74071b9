package database

import (
	"database/sql"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

// Client is satisfied by the postgres and sqlite clients.
type Client interface {
	DB() *sql.DB
	Dialect() string
}

const (
	sourceDocumentsTable  = "source_documents"
	recipesTable          = "recipes"
	ingredientsTable      = "ingredients"
	taxonomyTermsTable    = "taxonomy_terms"
	migrationRecordsTable = "migration_records"
)

func newGoqu(client Client) *goqu.Database {
	return goqu.New(client.Dialect(), client.DB())
}

// encodeJSON marshals list and struct columns stored as TEXT.
func encodeJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func decodeJSON(raw string, v interface{}) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), v)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
