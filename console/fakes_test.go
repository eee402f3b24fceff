package console

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"library-console/api"
	"library-console/library"
)

// TestMain runs goleak after all tests of the package; Load fans out.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func intp(n int) *int { return &n }

// fakeAPI records calls and answers from its fields. It implements AuthAPI,
// AdminAPI and UserAPI.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	users   []library.User
	books   []library.Book
	parts   library.BorrowPartitions
	mine    []library.BorrowRecord
	login   api.LoginResponse
	err     error
	errFor  map[string]error
	lastUpd api.UserUpdate
	lastBk  api.BookUpdate
	lastNew api.NewBook
	lastAct api.BorrowAction
	lastSig api.SignupRequest
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if err, found := f.errFor[call]; found {
		return err
	}
	return f.err
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Signup(_ context.Context, req api.SignupRequest) (api.Payload, error) {
	f.lastSig = req
	return api.Payload{}, f.record("signup")
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (api.LoginResponse, error) {
	if err := f.record("login"); err != nil {
		return api.LoginResponse{}, err
	}
	return f.login, nil
}

func (f *fakeAPI) ListUsers(context.Context) ([]library.User, error) {
	return f.users, f.record("list users")
}

func (f *fakeAPI) CreateUser(context.Context, string, string) error {
	return f.record("create user")
}

func (f *fakeAPI) UpdateUser(_ context.Context, id library.ID, u api.UserUpdate) error {
	f.lastUpd = u
	return f.record("update user " + string(id))
}

func (f *fakeAPI) DeleteUser(_ context.Context, id library.ID) error {
	return f.record("delete user " + string(id))
}

func (f *fakeAPI) ListBooks(context.Context) ([]library.Book, error) {
	return f.books, f.record("list books")
}

func (f *fakeAPI) SearchBooks(_ context.Context, q string) ([]library.Book, error) {
	return f.books, f.record("search books " + q)
}

func (f *fakeAPI) CreateBook(_ context.Context, b api.NewBook) error {
	f.lastNew = b
	return f.record("create book")
}

func (f *fakeAPI) UpdateBook(_ context.Context, id library.ID, u api.BookUpdate) error {
	f.lastBk = u
	return f.record("update book " + string(id))
}

func (f *fakeAPI) DeleteBook(_ context.Context, id library.ID) error {
	return f.record("delete book " + string(id))
}

func (f *fakeAPI) AdminBorrows(context.Context) (library.BorrowPartitions, error) {
	return f.parts, f.record("admin borrows")
}

func (f *fakeAPI) DecideBorrow(_ context.Context, id library.ID, a api.BorrowAction) error {
	f.lastAct = a
	return f.record("decide " + string(id))
}

func (f *fakeAPI) ReturnBorrow(_ context.Context, id library.ID) error {
	return f.record("return " + string(id))
}

func (f *fakeAPI) RequestBorrow(_ context.Context, id library.ID) error {
	return f.record("request " + string(id))
}

func (f *fakeAPI) MyBorrows(context.Context) ([]library.BorrowRecord, error) {
	return f.mine, f.record("my borrows")
}

// recordScreen keeps everything shown.
type recordScreen struct {
	tables []Table
	rows   []Row
}

func (s *recordScreen) Show(t Table) { s.tables = append(s.tables, t) }

func (s *recordScreen) ShowRow(_ string, r Row) { s.rows = append(s.rows, r) }

// last returns the most recent table shown under name.
func (s *recordScreen) last(name string) (Table, bool) {
	for i := len(s.tables) - 1; i >= 0; i-- {
		if s.tables[i].Name == name {
			return s.tables[i], true
		}
	}
	return Table{}, false
}

// memSessions is an in-memory SessionWriter.
type memSessions struct {
	saved   []library.Session
	cleared int
}

func (m *memSessions) Save(s library.Session) error {
	m.saved = append(m.saved, s)
	return nil
}

func (m *memSessions) Clear() error {
	m.cleared++
	return nil
}

type countingConfirm struct {
	answer    bool
	questions []string
}

func (c *countingConfirm) Confirm(q string) bool {
	c.questions = append(c.questions, q)
	return c.answer
}
