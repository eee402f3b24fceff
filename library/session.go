package library

// Storage keys, shared with anything else that reads the state file.
const (
	KeyToken   = "token"
	KeyRole    = "role"
	KeyBaseURL = "base_url"
)

// SessionStore is a thin façade over the Database, keeping command code simple.
type SessionStore struct {
	db *Database
}

// NewSessionStore opens (or creates) the state file at dbPath.
func NewSessionStore(dbPath string) (*SessionStore, error) {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	return &SessionStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SessionStore) Close() error { return s.db.Close() }

// Load reads the stored session. Missing keys yield empty fields.
func (s *SessionStore) Load() (Session, error) {
	var sess Session
	for key, dst := range map[string]*string{
		KeyToken:   &sess.Token,
		KeyRole:    &sess.Role,
		KeyBaseURL: &sess.BaseURL,
	} {
		v, _, err := s.db.Get(key)
		if err != nil {
			return Session{}, err
		}
		*dst = v
	}
	return sess, nil
}

// Save persists the session. An empty role leaves any stored role untouched,
// matching a login response that omits it.
func (s *SessionStore) Save(sess Session) error {
	pairs := map[string]string{
		KeyToken:   sess.Token,
		KeyBaseURL: sess.BaseURL,
	}
	if sess.Role != "" {
		pairs[KeyRole] = sess.Role
	}
	return s.db.SetMany(pairs)
}

// Clear removes the session keys (logout).
func (s *SessionStore) Clear() error {
	return s.db.Delete(KeyToken, KeyRole, KeyBaseURL)
}
