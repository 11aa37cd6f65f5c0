package db

import (
	"sync"

	"github.com/go-xorm/xorm"

	"paket.global/funder-go/util"
)

//SyncDB keeps the table schemas in sync with the structs
func SyncDB(pq *xorm.Engine) {
	err := pq.Sync2(new(User), new(UserInfo), new(TestResult), new(Purchase), new(Funding))
	if err != nil {
		util.LogError("cannot sync database schema: %v", err)
		panic(err)
	}
}

//NonceLocks tracks the newest nonce seen per pubkey so a signed request
//cannot be replayed. Swept periodically from main.
type NonceLocks struct {
	mu    sync.Mutex
	Seen  map[string]int64
	SeenT map[string]int64 //unix seconds of the last check, for sweeping
}

//NewNonceLocks .
func NewNonceLocks() *NonceLocks {
	return &NonceLocks{Seen: make(map[string]int64), SeenT: make(map[string]int64)}
}

//Check records the nonce and reports whether it is newer than the last one
//seen for the pubkey
func (n *NonceLocks) Check(pubkey string, nonce, now int64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if last, ok := n.Seen[pubkey]; ok && nonce <= last {
		return false
	}
	n.Seen[pubkey] = nonce
	n.SeenT[pubkey] = now
	return true
}

//Sweep drops entries not touched since the cutoff
func (n *NonceLocks) Sweep(cutoff int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for pubkey, t := range n.SeenT {
		if t < cutoff {
			delete(n.Seen, pubkey)
			delete(n.SeenT, pubkey)
		}
	}
}
