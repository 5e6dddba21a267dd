// Package archive keeps extracted order details in a local bbolt file,
// keyed by order number.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/aluiziolira/go-scrape-orders/models"
)

const bucketName = "orders"

// ErrNotFound is returned by Get for unknown order numbers.
var ErrNotFound = errors.New("archive: order not found")

// Store is a bbolt-backed order archive.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the archive at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Save stores detail under its order number, replacing any earlier copy.
func (s *Store) Save(detail *models.OrderDetail) error {
	number := strings.TrimSpace(models.Value(detail.OrderNumber))
	if number == "" {
		return fmt.Errorf("archive: order has no order number")
	}
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal order %s: %w", number, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(number), data)
	})
}

// Get returns the order stored under number.
func (s *Store) Get(number string) (*models.OrderDetail, error) {
	var detail models.OrderDetail
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(number))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, number)
		}
		return json.Unmarshal(data, &detail)
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns every stored order in order-number order.
func (s *Store) List() ([]*models.OrderDetail, error) {
	details := make([]*models.OrderDetail, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			var detail models.OrderDetail
			if err := json.Unmarshal(v, &detail); err != nil {
				return fmt.Errorf("unmarshal order %s: %w", k, err)
			}
			details = append(details, &detail)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// Delete removes number. Deleting an unknown order is not an error.
func (s *Store) Delete(number string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(number))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
