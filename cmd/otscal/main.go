// Command otscal is a minimal in-memory calendar simulator implementing
// the protocol of spec.md §6 (POST /digest, GET /timestamp/{hex}), useful
// for exercising pkg/workflow end-to-end without a network dependency.
// Analogous in spirit to the reference repository's secondary
// cmd/bls-zk-setup operational helper alongside its main service.
package main

import (
	"flag"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/opentimestamps/go-ots/pkg/bytesutil"
	"github.com/opentimestamps/go-ots/pkg/codec"
	"github.com/opentimestamps/go-ots/pkg/model"
)

// simulatedHeight is the fixed bitcoin height otscal reports for every
// digest it has seen, simulating a calendar that has already confirmed
// every submission.
const simulatedHeight = 700000

// calendarStore holds every digest submitted to it, keyed by hex digest, so a
// later /timestamp/{hex} lookup can answer with a confirmed attestation.
type calendarStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newCalendarStore() *calendarStore {
	return &calendarStore{seen: make(map[string]bool)}
}

func (s *calendarStore) remember(digest []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[bytesutil.ToHex(digest)] = true
}

func (s *calendarStore) has(hex string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[hex]
}

func main() {
	addr := flag.String("addr", ":5555", "listen address")
	flag.Parse()

	store := newCalendarStore()
	logger := log.New(log.Writer(), "[otscal] ", log.LstdFlags)

	r := mux.NewRouter()
	r.HandleFunc("/digest", handleDigest(store, logger)).Methods(http.MethodPost)
	r.HandleFunc("/timestamp/{hex}", handleTimestamp(store, logger)).Methods(http.MethodGet)

	logger.Printf("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		logger.Fatalf("serve: %v", err)
	}
}

func handleDigest(store *calendarStore, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		digest, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		store.remember(digest)
		logger.Printf("POST /digest %s", bytesutil.ToHex(digest))

		tree := model.NewTree()
		tree.AddLeaf(model.PendingLeaf(selfURL(r)))
		writeTree(w, tree)
	}
}

func handleTimestamp(store *calendarStore, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hexMsg := mux.Vars(r)["hex"]
		if !store.has(hexMsg) {
			http.NotFound(w, r)
			return
		}
		logger.Printf("GET /timestamp/%s", hexMsg)

		tree := model.NewTree()
		tree.AddLeaf(model.BitcoinLeaf(simulatedHeight))
		writeTree(w, tree)
	}
}

func writeTree(w http.ResponseWriter, tree *model.Tree) {
	cw := codec.NewWriter()
	if err := cw.WriteTree(tree); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.opentimestamps.v1")
	w.Write(cw.Bytes())
}

func selfURL(r *http.Request) model.URL {
	u, err := model.ParseURL("https://" + r.Host)
	if err != nil {
		return model.URL("https://localhost")
	}
	return u
}
