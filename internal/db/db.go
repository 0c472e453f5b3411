package db

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"

	badger "github.com/dgraph-io/badger/v3"
)

type AttributeStore interface {
	GetRecords(ctx context.Context) ([]AttributeRecord, error)
	GetRecord(ctx context.Context, endpoint uint16, cluster uint32, attribute uint32) (AttributeRecord, error)
	SaveRecord(ctx context.Context, record AttributeRecord) error
	DeleteRecord(ctx context.Context, endpoint uint16, cluster uint32, attribute uint32) error
	Close(ctx context.Context) error
}

func NewAttributeStore(dirname string) (AttributeStore, error) {
	opt := badger.DefaultOptions(dirname)
	opt.ValueLogFileSize = 1024 * 1024 * 40

	db, err := badger.Open(opt)
	if err != nil {
		return nil, err
	}

	return &attributeStore{
		db: db,
	}, nil
}

type attributeStore struct {
	db *badger.DB
}

func recordKey(endpoint uint16, cluster uint32, attribute uint32) []byte {
	key := make([]byte, 10)
	binary.LittleEndian.PutUint16(key[0:], endpoint)
	binary.LittleEndian.PutUint32(key[2:], cluster)
	binary.LittleEndian.PutUint32(key[6:], attribute)
	return key
}

func (s *attributeStore) GetRecords(ctx context.Context) ([]AttributeRecord, error) {
	var ret []AttributeRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var rec AttributeRecord

				dec := gob.NewDecoder(bytes.NewReader(v))
				if err := dec.Decode(&rec); err != nil {
					return err
				}

				ret = append(ret, rec)

				return nil
			})

			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return ret, nil
}

func (s *attributeStore) GetRecord(ctx context.Context, endpoint uint16, cluster uint32, attribute uint32) (AttributeRecord, error) {
	var ret AttributeRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(endpoint, cluster, attribute))
		if err != nil {
			return err
		}

		return item.Value(func(v []byte) error {
			dec := gob.NewDecoder(bytes.NewReader(v))
			return dec.Decode(&ret)
		})
	})

	if err != nil {
		return AttributeRecord{}, err
	}

	return ret, nil
}

func (s *attributeStore) SaveRecord(ctx context.Context, record AttributeRecord) error {
	buf := bytes.Buffer{}
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(record); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(record.Endpoint, record.Cluster, record.Attribute), buf.Bytes())
	})
}

func (s *attributeStore) DeleteRecord(ctx context.Context, endpoint uint16, cluster uint32, attribute uint32) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(recordKey(endpoint, cluster, attribute))
	})
}

func (s *attributeStore) Close(ctx context.Context) error {
	return s.db.Close()
}
