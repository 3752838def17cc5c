package borderoutput

import (
	"fmt"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/osmborder/border"
	"github.com/jamesrr39/osmborder/borderdal"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var _ borderdal.Outputter = &PostgresOutputter{}

const PostgresTableName = "osmborder_lines"

var postgresColumns = []string{
	"osm_id",
	"admin_level",
	"dividing_line",
	"neutral",
	"disputed",
	"disputed_by",
	"claimed_by",
	"maritime",
	"way",
}

func createTableSQL(tableName string, srid int, overwrite bool) string {
	var dropSQL string
	ifNotExists := "IF NOT EXISTS "
	if overwrite {
		dropSQL = fmt.Sprintf("DROP TABLE IF EXISTS %s;\n", pq.QuoteIdentifier(tableName))
		ifNotExists = ""
	}

	return dropSQL + fmt.Sprintf(`CREATE TABLE %s%s (
	osm_id BIGINT NOT NULL,
	admin_level INT NOT NULL,
	dividing_line BOOLEAN NOT NULL,
	neutral BOOLEAN NOT NULL,
	disputed BOOLEAN NOT NULL,
	disputed_by TEXT[] NOT NULL,
	claimed_by TEXT[] NOT NULL,
	maritime BOOLEAN NOT NULL,
	way GEOMETRY(LineString, %d) NOT NULL
)`, ifNotExists, pq.QuoteIdentifier(tableName), srid)
}

// PostgresOutputter streams the lines into a PostGIS table with COPY, in one transaction
type PostgresOutputter struct {
	db   *sqlx.DB
	tx   *sqlx.Tx
	stmt *sqlx.Stmt
}

func NewPostgresOutputter(connStr string, options OutputOptions) (*PostgresOutputter, errorsx.Error) {
	db, err := sqlx.Open("postgres", "postgresql://"+connStr)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	tx, err := db.Beginx()
	if err != nil {
		db.Close()
		return nil, errorsx.Wrap(err)
	}

	_, err = tx.Exec(createTableSQL(PostgresTableName, options.SRID, options.Overwrite))
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, errorsx.Wrap(err, "table", PostgresTableName)
	}

	stmt, err := tx.Preparex(pq.CopyIn(PostgresTableName, postgresColumns...))
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, errorsx.Wrap(err, "table", PostgresTableName)
	}

	return &PostgresOutputter{db, tx, stmt}, nil
}

func copyRowValues(line *border.ClassifiedLine) []interface{} {
	disputedBy := line.DisputedBy
	if disputedBy == nil {
		disputedBy = []string{}
	}
	claimedBy := line.ClaimedBy
	if claimedBy == nil {
		claimedBy = []string{}
	}

	return []interface{}{
		line.WayID,
		line.MinAdminLevel,
		line.DividingLine,
		line.Neutral,
		line.Disputed,
		pq.StringArray(disputedBy),
		pq.StringArray(claimedBy),
		line.Maritime,
		line.Geometry,
	}
}

func (o *PostgresOutputter) OutputLine(line *border.ClassifiedLine) errorsx.Error {
	_, err := o.stmt.Exec(copyRowValues(line)...)
	if err != nil {
		return errorsx.Wrap(err, "wayID", line.WayID)
	}

	return nil
}

func (o *PostgresOutputter) Commit() errorsx.Error {
	defer o.db.Close()

	// flush the buffered COPY data
	_, err := o.stmt.Exec()
	if err != nil {
		o.tx.Rollback()
		return errorsx.Wrap(err)
	}

	err = o.stmt.Close()
	if err != nil {
		o.tx.Rollback()
		return errorsx.Wrap(err)
	}

	err = o.tx.Commit()
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}

func (o *PostgresOutputter) Rollback() errorsx.Error {
	defer o.db.Close()

	err := o.tx.Rollback()
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}
