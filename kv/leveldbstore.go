package kv

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBStore is a durable Store backed by goleveldb, go-ethereum's
// long-standing default on-disk database engine. Intended for a host that
// wants the router's maps to survive a process restart; the router places
// no requirement on durability itself (spec.md treats the storage layer as
// an external, already-transactional collaborator).
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if absent) a LevelDB database at path.
func OpenLevelDB(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db}, nil
}

func (l *LevelDBStore) Close() error { return l.db.Close() }

func (l *LevelDBStore) Get(key []byte) ([]byte, bool) {
	v, err := l.db.Get(key, nil)
	if err != nil {
		return nil, false
	}
	return v, true
}

func (l *LevelDBStore) Put(key, value []byte) {
	_ = l.db.Put(key, value, nil)
}

func (l *LevelDBStore) Delete(key []byte) {
	_ = l.db.Delete(key, nil)
}

func (l *LevelDBStore) Has(key []byte) bool {
	ok, err := l.db.Has(key, nil)
	return err == nil && ok
}

func (l *LevelDBStore) Iterate(prefix []byte, fn func(key, value []byte) bool) {
	it := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()
	for it.Next() {
		key := append([]byte(nil), it.Key()...)
		value := append([]byte(nil), it.Value()...)
		if !fn(key, value) {
			return
		}
	}
}
