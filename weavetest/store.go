package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/weave-ballot/store/leveldb"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db *leveldb.CommitStore, cleanup func()) {
	t.Helper()
	dbpath, err := ioutil.TempDir("", "weavetest")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	db, err = leveldb.NewCommitStore(dbpath)
	if err != nil {
		os.RemoveAll(dbpath)
		t.Fatalf("cannot open store: %s", err)
	}
	return db, func() {
		db.Close()
		os.RemoveAll(dbpath)
	}
}
