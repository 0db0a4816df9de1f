// Package store keeps the input history of the interactive mode in a bbolt
// database.
package store

import (
	"time"

	bolt "go.etcd.io/bbolt"
	"src.rho.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[store] ")

const bucketCmd = "cmd"

// Cmd is an entry in the input history.
type Cmd struct {
	Text string
	Seq  int
}

// Store is the input history.
type Store interface {
	// NextCmdSeq returns the sequence number the next added entry will get.
	NextCmdSeq() (int, error)
	// AddCmd adds an entry, returning its sequence number.
	AddCmd(text string) (int, error)
	// Cmds returns the entries with sequence numbers in [from, upto).
	Cmds(from, upto int) ([]Cmd, error)
	// Close closes the store.
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// NewStore opens the database at the given path, creating it if it does not
// exist yet.
func NewStore(dbname string) (Store, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	logger.Println("opened database", dbname)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &dbStore{db}, nil
}

func (s *dbStore) Close() error {
	return s.db.Close()
}
