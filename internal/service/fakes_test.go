package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. Lookups return copies so a failed service call
// never leaks partial mutations into the store; only Update/Save write back.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// rollbackTxManager mimics a database rollback: it snapshots the backing
// stores before running fn and restores them when fn fails.
type rollbackTxManager struct {
	snapshot func() (restore func())
}

func (f *rollbackTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	restore := f.snapshot()
	if err := fn(ctx); err != nil {
		restore()
		return err
	}
	return nil
}

// --- users + roster ---

type fakeUserRepo struct {
	users     map[uuid.UUID]*model.User
	roster    map[uuid.UUID]bool
	tokens    map[string]*model.RefreshToken
	engineers []model.Engineer
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[uuid.UUID]*model.User),
		roster: make(map[uuid.UUID]bool),
		tokens: make(map[string]*model.RefreshToken),
	}
}

func (f *fakeUserRepo) addUser(username string) uuid.UUID {
	id := uuid.New()
	f.users[id] = &model.User{ID: id, Username: username, Email: username + "@example.com"}
	return id
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	cp := *token
	f.tokens[token.Token] = &cp
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeUserRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeUserRepo) EnrollEngineer(ctx context.Context, eng *model.Engineer) error {
	if eng.ID == uuid.Nil {
		eng.ID = uuid.New()
	}
	f.roster[eng.UserID] = true
	f.engineers = append(f.engineers, *eng)
	return nil
}

func (f *fakeUserRepo) IsEngineer(ctx context.Context, userID uuid.UUID) (bool, error) {
	return f.roster[userID], nil
}

func (f *fakeUserRepo) ListEngineers(ctx context.Context) ([]model.Engineer, error) {
	out := make([]model.Engineer, len(f.engineers))
	copy(out, f.engineers)
	return out, nil
}

// --- role assignments ---

type fakeRoleRepo struct {
	assignments []model.RoleAssignment
}

func (f *fakeRoleRepo) FindActiveAssignment(ctx context.Context, userID uuid.UUID) (*model.RoleAssignment, error) {
	var latest *model.RoleAssignment
	for i := range f.assignments {
		a := f.assignments[i]
		if a.UserID == userID && a.Active {
			if latest == nil || a.AssignedAt.After(latest.AssignedAt) {
				cp := a
				latest = &cp
			}
		}
	}
	return latest, nil
}

func (f *fakeRoleRepo) CountAssignments(ctx context.Context) (int64, error) {
	return int64(len(f.assignments)), nil
}

func (f *fakeRoleRepo) DeactivateAssignments(ctx context.Context, userID uuid.UUID) error {
	for i := range f.assignments {
		if f.assignments[i].UserID == userID {
			f.assignments[i].Active = false
		}
	}
	return nil
}

func (f *fakeRoleRepo) Create(ctx context.Context, assignment *model.RoleAssignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now()
	}
	f.assignments = append(f.assignments, *assignment)
	return nil
}

func (f *fakeRoleRepo) List(ctx context.Context, page, limit int) ([]model.RoleAssignment, int64, error) {
	out := make([]model.RoleAssignment, len(f.assignments))
	copy(out, f.assignments)
	return out, int64(len(out)), nil
}

// --- materials ---

type fakeMaterialRepo struct {
	materials map[uuid.UUID]*model.Material
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{materials: make(map[uuid.UUID]*model.Material)}
}

func (f *fakeMaterialRepo) Create(ctx context.Context, material *model.Material) error {
	if material.ID == uuid.Nil {
		material.ID = uuid.New()
	}
	cp := *material
	f.materials[material.ID] = &cp
	return nil
}

func (f *fakeMaterialRepo) Update(ctx context.Context, material *model.Material) error {
	cp := *material
	f.materials[material.ID] = &cp
	return nil
}

func (f *fakeMaterialRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	m, ok := f.materials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMaterialRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeMaterialRepo) List(ctx context.Context, page, limit int, search string) ([]model.Material, int64, error) {
	out := make([]model.Material, 0, len(f.materials))
	for _, m := range f.materials {
		if search != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (f *fakeMaterialRepo) ListLowStock(ctx context.Context) ([]model.Material, error) {
	var out []model.Material
	for _, m := range f.materials {
		if m.LowStock() {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMaterialRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(f.materials)), nil
}

func (f *fakeMaterialRepo) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	for _, m := range f.materials {
		if m.LowStock() {
			n++
		}
	}
	return n, nil
}

func (f *fakeMaterialRepo) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range f.materials {
		total = total.Add(decimal.NewFromFloat(m.UnitPrice).Mul(decimal.NewFromInt(int64(m.CurrentStock))))
	}
	return total, nil
}

// --- stock movements ---

type fakeMovementRepo struct {
	movements []model.StockMovement
}

func (f *fakeMovementRepo) Create(ctx context.Context, movement *model.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	f.movements = append(f.movements, *movement)
	return nil
}

func (f *fakeMovementRepo) ListByMaterial(ctx context.Context, materialID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	// Newest first, matching the real repository's ordering
	var out []model.StockMovement
	for i := len(f.movements) - 1; i >= 0; i-- {
		if f.movements[i].MaterialID == materialID {
			out = append(out, f.movements[i])
		}
	}
	return out, int64(len(out)), nil
}

// --- material requests ---

type fakeRequestRepo struct {
	requests map[uuid.UUID]*model.MaterialRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]*model.MaterialRequest)}
}

func (f *fakeRequestRepo) Create(ctx context.Context, request *model.MaterialRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	cp := *request
	cp.Items = nil
	f.requests[request.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) CreateItem(ctx context.Context, item *model.MaterialRequestItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r, ok := f.requests[item.RequestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Items = append(r.Items, *item)
	return nil
}

func (f *fakeRequestRepo) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.MaterialRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	cp.Items = make([]model.MaterialRequestItem, len(r.Items))
	copy(cp.Items, r.Items)
	return &cp, nil
}

func (f *fakeRequestRepo) Save(ctx context.Context, request *model.MaterialRequest) error {
	cp := *request
	cp.Items = make([]model.MaterialRequestItem, len(request.Items))
	copy(cp.Items, request.Items)
	f.requests[request.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) List(ctx context.Context, status string, page, limit int) ([]model.MaterialRequest, int64, error) {
	var out []model.MaterialRequest
	for _, r := range f.requests {
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequestRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	for _, r := range f.requests {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

// --- projects ---

type fakeProjectRepo struct {
	projects map[uuid.UUID]*model.Project
	units    map[uuid.UUID]*model.Unit
	tasks    map[uuid.UUID]*model.Task
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: make(map[uuid.UUID]*model.Project),
		units:    make(map[uuid.UUID]*model.Unit),
		tasks:    make(map[uuid.UUID]*model.Task),
	}
}

func (f *fakeProjectRepo) addProject(name string, budget decimal.Decimal) uuid.UUID {
	id := uuid.New()
	f.projects[id] = &model.Project{ID: id, Name: name, Budget: budget, Status: model.ProjectActive}
	return id
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *model.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	cp := *project
	f.projects[project.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, project *model.Project) error {
	cp := *project
	f.projects[project.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectRepo) List(ctx context.Context, page, limit int) ([]model.Project, int64, error) {
	out := make([]model.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProjectRepo) CreateUnit(ctx context.Context, unit *model.Unit) error {
	if unit.ID == uuid.Nil {
		unit.ID = uuid.New()
	}
	cp := *unit
	f.units[unit.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) FindUnitByID(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	u, ok := f.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeProjectRepo) ListUnits(ctx context.Context, projectID uuid.UUID) ([]model.Unit, error) {
	var out []model.Unit
	for _, u := range f.units {
		if u.ProjectID == projectID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) CreateTask(ctx context.Context, task *model.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) FindTaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeProjectRepo) SaveTask(ctx context.Context, task *model.Task) error {
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) ListTasks(ctx context.Context, projectID uuid.UUID, status string) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

// --- payouts ---

type fakePayoutRepo struct {
	payouts []model.Payout
}

func (f *fakePayoutRepo) Create(ctx context.Context, payout *model.Payout) error {
	if payout.ID == uuid.Nil {
		payout.ID = uuid.New()
	}
	if payout.CreatedAt.IsZero() {
		payout.CreatedAt = time.Now()
	}
	f.payouts = append(f.payouts, *payout)
	return nil
}

func (f *fakePayoutRepo) ListByProject(ctx context.Context, projectID uuid.UUID, page, limit int) ([]model.Payout, int64, error) {
	var out []model.Payout
	for _, p := range f.payouts {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakePayoutRepo) SumByProject(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, int, error) {
	total := decimal.Zero
	count := 0
	for _, p := range f.payouts {
		if p.ProjectID == projectID {
			total = total.Add(p.Amount)
			count++
		}
	}
	return total, count, nil
}

func (f *fakePayoutRepo) SumAll(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range f.payouts {
		total = total.Add(p.Amount)
	}
	return total, nil
}

// --- audit ---

type fakeAuditRepo struct {
	entries []model.AuditLog
	logErr  error
}

func (f *fakeAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	if f.logErr != nil {
		return f.logErr
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, e := range f.entries {
		if action != "" && e.Action != action {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAuditRepo) actions() []string {
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}
