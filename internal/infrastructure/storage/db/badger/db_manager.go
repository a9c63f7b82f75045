package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/chatcheckout/checkout-daemon/internal/core/domain"
	"github.com/chatcheckout/checkout-daemon/internal/core/ports"
)

// RepoManager holds the badgerhold store backing the checkout repository and
// manages its lifecycle.
type RepoManager struct {
	store              *badgerhold.Store
	checkoutRepository domain.CheckoutRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	store, err := createDb(baseDbDir+"/checkout", logger)
	if err != nil {
		return nil, fmt.Errorf("opening checkout db: %w", err)
	}

	return &RepoManager{
		store:              store,
		checkoutRepository: NewCheckoutRepositoryImpl(store),
	}, nil
}

func (d *RepoManager) CheckoutRepository() domain.CheckoutRepository {
	return d.checkoutRepository
}

func (d *RepoManager) Close() {
	d.store.Close()
}

// JSONEncode is a custom JSON based encoder for badger.
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger.
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)

	_, err := buff.Write(data)
	if err != nil {
		return err
	}

	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (db *badgerhold.Store, err error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	db, err = badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})

	return
}
