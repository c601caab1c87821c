package node

import (
	"encoding/binary"
	"sync"

	ctrlertypes "github.com/ShibuiDAO/veShibui/ctrlers/types"
	"github.com/ShibuiDAO/veShibui/libs/jsonx"
	tmdb "github.com/tendermint/tm-db"
)

const (
	keyBlockContext = "bc"
	keyTxn          = "xn"
	keyChainID      = "ci"
)

// MetaDB keeps the application data which is not a part of the app hash.
type MetaDB struct {
	db tmdb.DB

	txn uint64

	mtx sync.RWMutex
}

func OpenMetaDB(name, dir string) (*MetaDB, error) {
	// The returned 'db' instance is safe in concurrent use.
	db, err := tmdb.NewDB(name, tmdb.GoLevelDBBackend, dir)
	if err != nil {
		return nil, err
	}

	txn := uint64(0)
	if v, err := db.Get([]byte(keyTxn)); v != nil && err == nil {
		txn = binary.BigEndian.Uint64(v)
	}

	return &MetaDB{
		db:  db,
		txn: txn,
	}, nil
}

func (stdb *MetaDB) Close() error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	return stdb.db.Close()
}

func (stdb *MetaDB) LastBlockContext() *ctrlertypes.BlockContext {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	bz := stdb.get(keyBlockContext)
	if bz == nil {
		return nil
	}
	ret := &ctrlertypes.BlockContext{}
	if err := jsonx.Unmarshal(bz, ret); err != nil {
		return nil
	}
	return ret
}

func (stdb *MetaDB) PutLastBlockContext(ctx *ctrlertypes.BlockContext) error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	bz, err := jsonx.Marshal(ctx)
	if err != nil {
		return err
	}
	return stdb.put(keyBlockContext, bz)
}

func (stdb *MetaDB) ChainID() string {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	return string(stdb.get(keyChainID))
}

func (stdb *MetaDB) PutChainID(chainId string) error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	return stdb.put(keyChainID, []byte(chainId))
}

// Txn returns the number of the transactions executed successfully.
func (stdb *MetaDB) Txn() uint64 {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	return stdb.txn
}

func (stdb *MetaDB) PutTxn(n uint64) error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	if err := stdb.put(keyTxn, bz); err != nil {
		return err
	}
	stdb.txn = n
	return nil
}

func (stdb *MetaDB) get(k string) []byte {
	if v, err := stdb.db.Get([]byte(k)); err == nil {
		return v
	}
	return nil
}

func (stdb *MetaDB) put(k string, v []byte) error {
	return stdb.db.SetSync([]byte(k), v)
}
