package postgres

import (
	"database/sql"

	"membership-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.AccountRepository
	repository.AuthSlotRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		AccountRepository:  NewAccountRepository(db),
		AuthSlotRepository: NewAuthSlotRepository(db),
	}
}
