// Package roster implements activity membership: an ordered list of unique
// student emails.
package roster

// Roster holds the participants of one activity. Membership is unique per
// email and insertion order is preserved so listings stay stable. A Roster is
// not safe for concurrent use; the owning store serializes access.
type Roster struct {
	order []string
	index map[string]struct{}
}

// New returns an empty roster.
func New() *Roster {
	return &Roster{index: make(map[string]struct{})}
}

// NewFrom returns a roster seeded with the given emails in order. Duplicates
// are dropped so the uniqueness invariant holds by construction.
func NewFrom(emails []string) *Roster {
	r := New()
	for _, e := range emails {
		_ = r.Add(e)
	}
	return r
}

// Add appends email to the roster. It returns ErrDuplicateMember when the
// email is already present, leaving the roster unchanged.
func (r *Roster) Add(email string) error {
	if _, ok := r.index[email]; ok {
		return ErrDuplicateMember
	}
	r.index[email] = struct{}{}
	r.order = append(r.order, email)
	return nil
}

// Remove deletes email from the roster. It returns ErrNotMember when the
// email is not present, leaving the roster unchanged.
func (r *Roster) Remove(email string) error {
	if _, ok := r.index[email]; !ok {
		return ErrNotMember
	}
	delete(r.index, email)
	for i, e := range r.order {
		if e == email {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Has reports whether email is on the roster.
func (r *Roster) Has(email string) bool {
	_, ok := r.index[email]
	return ok
}

// Emails returns the members in insertion order. The slice is a copy; callers
// cannot mutate roster state through it.
func (r *Roster) Emails() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of members.
func (r *Roster) Len() int {
	return len(r.order)
}
