package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/evgeniy-krivenko/notes-web/pkg/database"
)

type Repo struct {
	db database.Tx
}

func New(db database.Tx) *Repo {
	return &Repo{db: db}
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
