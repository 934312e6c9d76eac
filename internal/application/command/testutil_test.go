package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gradpath/merit-portal/internal/domain/counselor"
	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/rulebook"
	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// In-memory repositories for handler tests. One fixture owns all stores;
// the unit of work hands out the same instances, so writes are visible
// immediately and commit/rollback are no-ops.

type fixture struct {
	students      *memStudentRepo
	counselors    *memCounselorRepo
	submissions   *memSubmissionRepo
	rules         *memRuleRepo
	notifications *memNotificationRepo
	accounts      *memAccountRepo
	ids           *seqIDGen
	bus           *recordingBus
}

func newFixture() *fixture {
	students := &memStudentRepo{byID: map[string]*student.Student{}}
	return &fixture{
		students:      students,
		counselors:    &memCounselorRepo{byID: map[string]*counselor.Counselor{}},
		submissions:   &memSubmissionRepo{byID: map[string]*submission.Submission{}, students: students},
		rules:         &memRuleRepo{byID: map[string]*rulebook.Rule{}},
		notifications: &memNotificationRepo{byID: map[string]*notification.Notification{}},
		accounts:      &memAccountRepo{byID: map[string]*identity.Account{}},
		ids:           &seqIDGen{},
		bus:           &recordingBus{},
	}
}

func (f *fixture) uowFactory() UnitOfWorkFactory {
	return memUowFactory{f: f}
}

type memUowFactory struct{ f *fixture }

func (m memUowFactory) Begin(ctx context.Context) (UnitOfWork, error) {
	return memUow{f: m.f}, nil
}

type memUow struct{ f *fixture }

func (u memUow) Students() student.Repository                { return u.f.students }
func (u memUow) Counselors() counselor.Repository            { return u.f.counselors }
func (u memUow) Submissions() submission.Repository          { return u.f.submissions }
func (u memUow) Rules() rulebook.Repository                  { return u.f.rules }
func (u memUow) Notifications() notification.Repository     { return u.f.notifications }
func (u memUow) Accounts() identity.AccountRepository        { return u.f.accounts }
func (u memUow) Commit(ctx context.Context) error            { return nil }
func (u memUow) Rollback(ctx context.Context) error          { return nil }

// seqIDGen issues uuid-shaped deterministic IDs.
type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) GenerateID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", g.n)
}

// recordingBus records published events.
type recordingBus struct {
	mu     sync.Mutex
	events []shared.Event
}

func (b *recordingBus) Publish(e shared.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) ofType(t shared.EventType) []shared.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []shared.Event
	for _, e := range b.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// plainHasher is a transparent stand-in for bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return shared.ErrInvalidCredentials
	}
	return nil
}

// memSessionStore keeps sessions in a map.
type memSessionStore struct {
	mu   sync.Mutex
	byTk map[string]identity.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{byTk: map[string]identity.Session{}}
}

func (s *memSessionStore) Save(ctx context.Context, sess identity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTk[sess.Token] = sess
	return nil
}

func (s *memSessionStore) Get(ctx context.Context, token string) (identity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byTk[token]
	if !ok {
		return identity.Session{}, shared.ErrSessionNotFound
	}
	return sess, nil
}

func (s *memSessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byTk, token)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────
// Student repository
// ─────────────────────────────────────────────────────────────────────────

type memStudentRepo struct {
	mu   sync.Mutex
	byID map[string]*student.Student
}

func (r *memStudentRepo) Create(ctx context.Context, st *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.StudentNumber == st.StudentNumber {
			return shared.ErrStudentAlreadyExists
		}
	}
	r.byID[st.ID] = st.Clone()
	return nil
}

func (r *memStudentRepo) GetByID(ctx context.Context, id string) (*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return st.Clone(), nil
}

func (r *memStudentRepo) GetByIDInCohort(ctx context.Context, id string, cohort shared.Cohort) (*student.Student, error) {
	st, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.Cohort().Equals(cohort) {
		return nil, shared.ErrStudentNotFound
	}
	return st, nil
}

func (r *memStudentRepo) GetByNumber(ctx context.Context, number shared.StudentNumber) (*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.StudentNumber == number {
			return s.Clone(), nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

func (r *memStudentRepo) Update(ctx context.Context, st *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[st.ID]; !ok {
		return shared.ErrStudentNotFound
	}
	r.byID[st.ID] = st.Clone()
	return nil
}

func (r *memStudentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return shared.ErrStudentNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memStudentRepo) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*student.Student
	for _, s := range r.byID {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memStudentRepo) GetByCohort(ctx context.Context, cohort shared.Cohort, opts student.ListOptions) ([]*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*student.Student
	for _, s := range r.byID {
		if !s.Cohort().Equals(cohort) {
			continue
		}
		if opts.Search != "" &&
			!strings.Contains(s.FullName, opts.Search) &&
			!strings.Contains(s.StudentNumber.String(), opts.Search) {
			continue
		}
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memStudentRepo) ListIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memStudentRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

func (r *memStudentRepo) CountByCohort(ctx context.Context, cohort shared.Cohort) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.byID {
		if s.Cohort().Equals(cohort) {
			n++
		}
	}
	return n, nil
}

func (r *memStudentRepo) CountGreaterTotal(ctx context.Context, cohort shared.Cohort, total shared.Score) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.byID {
		if s.Cohort().Equals(cohort) && s.Total != nil && s.Total.Cmp(total) > 0 {
			n++
		}
	}
	return n, nil
}

func (r *memStudentRepo) ExistsByNumber(ctx context.Context, number shared.StudentNumber) (bool, error) {
	_, err := r.GetByNumber(ctx, number)
	if err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *memStudentRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ─────────────────────────────────────────────────────────────────────────
// Counselor repository
// ─────────────────────────────────────────────────────────────────────────

type memCounselorRepo struct {
	mu   sync.Mutex
	byID map[string]*counselor.Counselor
}

func (r *memCounselorRepo) Create(ctx context.Context, c *counselor.Counselor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.EmployeeID == c.EmployeeID {
			return shared.ErrCounselorAlreadyExists
		}
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCounselorRepo) GetByID(ctx context.Context, id string) (*counselor.Counselor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrCounselorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCounselorRepo) GetByEmployeeID(ctx context.Context, employeeID shared.EmployeeID) (*counselor.Counselor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.EmployeeID == employeeID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, shared.ErrCounselorNotFound
}

func (r *memCounselorRepo) Update(ctx context.Context, c *counselor.Counselor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return shared.ErrCounselorNotFound
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCounselorRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return shared.ErrCounselorNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memCounselorRepo) GetAll(ctx context.Context, opts counselor.ListOptions) ([]*counselor.Counselor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*counselor.Counselor
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCounselorRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

func (r *memCounselorRepo) ExistsByEmployeeID(ctx context.Context, employeeID shared.EmployeeID) (bool, error) {
	_, err := r.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ─────────────────────────────────────────────────────────────────────────
// Submission repository
// ─────────────────────────────────────────────────────────────────────────

type memSubmissionRepo struct {
	mu       sync.Mutex
	byID     map[string]*submission.Submission
	students *memStudentRepo
}

func (r *memSubmissionRepo) Create(ctx context.Context, sub *submission.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[sub.ID] = sub.Clone()
	return nil
}

func (r *memSubmissionRepo) GetByID(ctx context.Context, id string) (*submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrSubmissionNotFound
	}
	return sub.Clone(), nil
}

func (r *memSubmissionRepo) GetByIDInCohort(ctx context.Context, id string, cohort shared.Cohort) (*submission.Submission, error) {
	sub, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := r.students.GetByID(ctx, sub.StudentID)
	if err != nil || !owner.Cohort().Equals(cohort) {
		return nil, shared.ErrSubmissionNotFound
	}
	return sub, nil
}

func (r *memSubmissionRepo) Update(ctx context.Context, sub *submission.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[sub.ID]; !ok {
		return shared.ErrSubmissionNotFound
	}
	r.byID[sub.ID] = sub.Clone()
	return nil
}

func (r *memSubmissionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return shared.ErrSubmissionNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memSubmissionRepo) GetByStudent(ctx context.Context, studentID string, opts submission.ListOptions) ([]*submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*submission.Submission
	for _, s := range r.byID {
		if s.StudentID != studentID {
			continue
		}
		if opts.Status != "" && s.Status != opts.Status {
			continue
		}
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memSubmissionRepo) GetByCohort(ctx context.Context, cohort shared.Cohort, opts submission.ListOptions) ([]*submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*submission.Submission
	for _, s := range r.byID {
		owner, ok := r.students.byID[s.StudentID]
		if !ok || !owner.Cohort().Equals(cohort) {
			continue
		}
		if opts.Status != "" && s.Status != opts.Status {
			continue
		}
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memSubmissionRepo) CountByCohort(ctx context.Context, cohort shared.Cohort, status submission.Status) (int, error) {
	subs, err := r.GetByCohort(ctx, cohort, submission.ListOptions{Status: status})
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}

// ─────────────────────────────────────────────────────────────────────────
// Rule repository
// ─────────────────────────────────────────────────────────────────────────

type memRuleRepo struct {
	mu   sync.Mutex
	byID map[string]*rulebook.Rule
}

func (r *memRuleRepo) Create(ctx context.Context, rule *rulebook.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rule
	r.byID[rule.ID] = &cp
	return nil
}

func (r *memRuleRepo) GetByID(ctx context.Context, id string) (*rulebook.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrRuleNotFound
	}
	cp := *rule
	return &cp, nil
}

func (r *memRuleRepo) Update(ctx context.Context, rule *rulebook.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rule.ID]; !ok {
		return shared.ErrRuleNotFound
	}
	cp := *rule
	r.byID[rule.ID] = &cp
	return nil
}

func (r *memRuleRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return shared.ErrRuleNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memRuleRepo) GetAll(ctx context.Context) ([]*rulebook.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*rulebook.Rule
	for _, rule := range r.byID {
		cp := *rule
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out, nil
}

func (r *memRuleRepo) GetByType(ctx context.Context, ruleType submission.Category) ([]*rulebook.Rule, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*rulebook.Rule
	for _, rule := range all {
		if rule.RuleType == ruleType {
			out = append(out, rule)
		}
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────
// Notification repository
// ─────────────────────────────────────────────────────────────────────────

type memNotificationRepo struct {
	mu   sync.Mutex
	byID map[string]*notification.Notification
}

func (r *memNotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.byID[n.ID] = &cp
	return nil
}

func (r *memNotificationRepo) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	for _, n := range ns {
		if err := r.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (r *memNotificationRepo) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotificationNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *memNotificationRepo) GetByRecipient(ctx context.Context, recipientID string, opts notification.ListOptions) ([]*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notification.Notification
	for _, n := range r.byID {
		if n.RecipientID != recipientID {
			continue
		}
		if opts.UnreadOnly && n.Read {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memNotificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	ns, err := r.GetByRecipient(ctx, recipientID, notification.ListOptions{UnreadOnly: true})
	if err != nil {
		return 0, err
	}
	return len(ns), nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return shared.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (r *memNotificationRepo) MarkAllRead(ctx context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.byID {
		if n.RecipientID == recipientID {
			n.Read = true
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────
// Account repository
// ─────────────────────────────────────────────────────────────────────────

type memAccountRepo struct {
	mu   sync.Mutex
	byID map[string]*identity.Account
}

func (r *memAccountRepo) Create(ctx context.Context, a *identity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.Username == a.Username {
			return shared.ErrAccountAlreadyExists
		}
	}
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *memAccountRepo) GetByID(ctx context.Context, id string) (*identity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAccountRepo) GetByUsername(ctx context.Context, username string) (*identity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, shared.ErrAccountNotFound
}

func (r *memAccountRepo) GetByProfileID(ctx context.Context, profileID string) (*identity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.ProfileID == profileID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, shared.ErrAccountNotFound
}

func (r *memAccountRepo) Update(ctx context.Context, a *identity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return shared.ErrAccountNotFound
	}
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *memAccountRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return shared.ErrAccountNotFound
	}
	delete(r.byID, id)
	return nil
}
