package statement

import (
	"strings"
	"sync"
)

// Catalog describes where procedure parameter metadata is read from. Query takes the procedure name and the
// schema as its two placeholders and must expose the columns scanned by catalogRow.
//
// A Packaged catalog takes the object name, the package name and the schema instead. `PKG.PROC` is split on
// its last dot; a bare name is looked up with noPackage and so only matches standalone procedures.
type Catalog struct {
	Name           string
	Query          string
	NumericTypes   []string
	CharacterTypes []string
	Packaged       bool
}

// noPackage stands in for a NULL PACKAGE_NAME in packaged catalog queries.
const noPackage = "-"

// lookupArgs returns the placeholder values for procedure in schema.
func (c Catalog) lookupArgs(procedure, schema string) []interface{} {
	if !c.Packaged {
		return []interface{}{procedure, schema}
	}
	pkg, object := noPackage, procedure
	if i := strings.LastIndex(procedure, "."); i >= 0 {
		pkg, object = procedure[:i], procedure[i+1:]
		if j := strings.LastIndex(pkg, "."); j >= 0 {
			pkg = pkg[j+1:]
		}
	}
	return []interface{}{object, pkg, schema}
}

var standardNumericTypes = []string{
	"SMALLINT", "BIGINT", "DOUBLE PRECISION", "DECIMAL", "REAL", "NUMERIC", "INTEGER",
}

var standardCharacterTypes = []string{"CHARACTER", "CHARACTER VARYING"}

const (
	querySysparms = `
		SELECT ORDINAL_POSITION, CHARACTER_MAXIMUM_LENGTH, DATA_TYPE, NUMERIC_PRECISION, NUMERIC_SCALE
		FROM QSYS2.SYSPARMS
		WHERE SPECIFIC_NAME = ?
		  AND SPECIFIC_SCHEMA = ?
		ORDER BY ORDINAL_POSITION`

	queryInformationSchema = `
		SELECT
			ordinal_position AS "ORDINAL_POSITION",
			character_maximum_length AS "CHARACTER_MAXIMUM_LENGTH",
			UPPER(data_type) AS "DATA_TYPE",
			numeric_precision AS "NUMERIC_PRECISION",
			numeric_scale AS "NUMERIC_SCALE"
		FROM information_schema.parameters
		WHERE UPPER(specific_name) = ?
		  AND specific_schema = ?
		ORDER BY ordinal_position`

	// Unconstrained PL/SQL character arguments report CHAR_LENGTH 0 and argument-less procedures report a
	// single row with a NULL DATA_TYPE. Only the first overload is read.
	queryAllArguments = `
		SELECT
			POSITION AS ORDINAL_POSITION,
			NULLIF(CHAR_LENGTH, 0) AS CHARACTER_MAXIMUM_LENGTH,
			DATA_TYPE,
			DATA_PRECISION AS NUMERIC_PRECISION,
			DATA_SCALE AS NUMERIC_SCALE
		FROM ALL_ARGUMENTS
		WHERE OBJECT_NAME = ?
		  AND NVL(PACKAGE_NAME, '-') = ?
		  AND OWNER = ?
		  AND DATA_LEVEL = 0
		  AND POSITION > 0
		  AND DATA_TYPE IS NOT NULL
		  AND NVL(OVERLOAD, '1') = '1'
		ORDER BY POSITION`
)

var catalogs = map[string]Catalog{
	"sysparms": {
		Name:           "sysparms",
		Query:          querySysparms,
		NumericTypes:   standardNumericTypes,
		CharacterTypes: standardCharacterTypes,
	},
	"information_schema": {
		Name:           "information_schema",
		Query:          queryInformationSchema,
		NumericTypes:   standardNumericTypes,
		CharacterTypes: standardCharacterTypes,
	},
	"all_arguments": {
		Name:  "all_arguments",
		Query: queryAllArguments,
		NumericTypes: append(append([]string{}, standardNumericTypes...),
			"NUMBER", "FLOAT", "BINARY_FLOAT", "BINARY_DOUBLE"),
		CharacterTypes: append(append([]string{}, standardCharacterTypes...),
			"CHAR", "NCHAR", "VARCHAR2", "NVARCHAR2"),
		Packaged: true,
	},
}

// DefaultCatalog is the catalog used when neither Options.Catalog nor the driver names one.
const DefaultCatalog = "sysparms"

var (
	catalogsMu     sync.RWMutex
	driverCatalogs = map[string]string{}
)

func init() {
	RegisterDriverCatalog("oracle", "all_arguments")
}

// RegisterDriverCatalog makes catalog the default for connections opened with the database/sql driver driverName.
func RegisterDriverCatalog(driverName, catalog string) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	driverCatalogs[driverName] = catalog
}

// CatalogForDriver resolves a catalog by name, falling back to the driver's default and then to DefaultCatalog.
func CatalogForDriver(name, driverName string) (Catalog, bool) {
	if name == "" {
		catalogsMu.RLock()
		name = driverCatalogs[driverName]
		catalogsMu.RUnlock()
	}
	return LookupCatalog(name)
}

// LookupCatalog returns a catalog preset by name.
func LookupCatalog(name string) (Catalog, bool) {
	if name == "" {
		name = DefaultCatalog
	}
	c, ok := catalogs[name]
	return c, ok
}
