package library

import "encoding/json"

// Role is the account kind the server returns at login.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole reports whether s names a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), true
	}
	return "", false
}

// Session is what survives between runs: the bearer token, the role it was
// issued for and the API base it was issued by.
type Session struct {
	Token   string
	Role    string
	BaseURL string
}

// LoggedIn reports whether a token is present. The role is not checked.
func (s Session) LoggedIn() bool { return s.Token != "" }

// Book is the client-side projection of a catalogue entry.
// AvailableCopies is nil when the server omitted the field.
type Book struct {
	ID              ID     `json:"_id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn,omitempty"`
	Category        string `json:"category"`
	AvailableCopies *int   `json:"available_copies"`
}

// UnmarshalJSON decodes b with a tolerant available_copies; see decodeCount.
func (b *Book) UnmarshalJSON(data []byte) error {
	type plain Book
	aux := struct {
		*plain
		AvailableCopies json.RawMessage `json:"available_copies"`
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.AvailableCopies = decodeCount(aux.AvailableCopies)
	return nil
}

// Copies returns the available copies, treating a missing value as zero.
func (b Book) Copies() int {
	if b.AvailableCopies == nil {
		return 0
	}
	return *b.AvailableCopies
}

// User is an account as listed by the admin endpoints.
type User struct {
	ID       ID     `json:"_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Status   string `json:"status,omitempty"`
}

// BorrowStatus is the lifecycle state of a borrow request or record.
type BorrowStatus string

const (
	StatusPending  BorrowStatus = "pending"
	StatusApproved BorrowStatus = "approved"
	StatusBorrowed BorrowStatus = "borrowed"
	StatusRejected BorrowStatus = "rejected"
	StatusReturned BorrowStatus = "returned"
)

// BorrowRecord covers both pending requests and loans; the server uses the
// same shape for each with a different subset of dates filled in.
type BorrowRecord struct {
	ID                ID           `json:"_id"`
	Status            BorrowStatus `json:"status"`
	Username          string       `json:"username"`
	BookID            ID           `json:"book_id"`
	BookName          string       `json:"book_name"`
	BookTitle         string       `json:"book_title"`
	AvailableQuantity *int         `json:"available_quantity"`
	RequestedAt       Timestamp    `json:"requested_at"`
	BorrowDate        Timestamp    `json:"borrow_date"`
	DueDate           Timestamp    `json:"due_date"`
	ReturnDate        Timestamp    `json:"return_date"`
}

// UnmarshalJSON decodes r with a tolerant available_quantity.
func (r *BorrowRecord) UnmarshalJSON(data []byte) error {
	type plain BorrowRecord
	aux := struct {
		*plain
		AvailableQuantity json.RawMessage `json:"available_quantity"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.AvailableQuantity = decodeCount(aux.AvailableQuantity)
	return nil
}

// BorrowPartitions is the admin view of all borrow activity.
type BorrowPartitions struct {
	Requested []BorrowRecord `json:"requested"`
	Borrowed  []BorrowRecord `json:"borrowed"`
	Returned  []BorrowRecord `json:"returned"`
}

// Empty reports whether all three partitions are empty.
func (p BorrowPartitions) Empty() bool {
	return len(p.Requested) == 0 && len(p.Borrowed) == 0 && len(p.Returned) == 0
}
