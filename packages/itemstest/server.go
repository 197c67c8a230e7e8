// Package itemstest provides an in-memory /api/items server for tests.
package itemstest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Path is the collection path served by Server.
const Path = "/api/items"

// Record is the stored form of an item. The server keeps whatever optional
// fields the client sent.
type Record struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Vendor    string  `json:"vendor,omitempty"`
	Date      string  `json:"date,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// Server is a thread-safe in-memory CRUD store behind an http.Handler.
type Server struct {
	mu     sync.Mutex
	items  map[int]Record
	nextID int
	seen   []string

	// CreateStatus is the status returned by a successful POST.
	CreateStatus int
}

func New() *Server {
	return &Server{
		items:        make(map[int]Record),
		nextID:       1,
		CreateStatus: http.StatusCreated,
	}
}

// Start serves s on a test server closed at the end of the test and returns
// the collection URL.
func Start(t testing.TB, s *Server) string {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return srv.URL + Path
}

// Seen returns "METHOD path" for every request received.
func (s *Server) Seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.seen...)
}

// Items returns the stored records ordered by id.
func (s *Server) Items() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.seen = append(s.seen, r.Method+" "+r.URL.Path)
	s.mu.Unlock()

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == Path:
		s.collection(w, r)
	case strings.HasPrefix(path, Path+"/"):
		id, err := strconv.Atoi(strings.TrimPrefix(path, Path+"/"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
			return
		}
		s.member(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (s *Server) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		list := s.sortedLocked()
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		rec, err := decodeRecord(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.mu.Lock()
		rec.ID = s.nextID
		s.nextID++
		s.items[rec.ID] = rec
		status := s.CreateStatus
		s.mu.Unlock()
		w.Header().Set("Location", fmt.Sprintf("%s/%d", Path, rec.ID))
		writeJSON(w, status, rec)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (s *Server) member(w http.ResponseWriter, r *http.Request, id int) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		rec, ok := s.items[id]
		s.mu.Unlock()
		if !ok {
			writeNotFound(w, id)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodPut:
		rec, err := decodeRecord(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.mu.Lock()
		_, ok := s.items[id]
		if ok {
			rec.ID = id
			s.items[id] = rec
		}
		s.mu.Unlock()
		if !ok {
			writeNotFound(w, id)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		s.mu.Lock()
		_, ok := s.items[id]
		delete(s.items, id)
		s.mu.Unlock()
		if !ok {
			writeNotFound(w, id)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Item %d deleted", id)})
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (s *Server) sortedLocked() []Record {
	list := make([]Record, 0, len(s.items))
	for _, rec := range s.items {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func decodeRecord(body io.Reader) (Record, error) {
	var rec Record
	if err := json.NewDecoder(body).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("invalid request payload: %v", err)
	}
	return rec, nil
}

func writeNotFound(w http.ResponseWriter, id int) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("item %d not found", id)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
