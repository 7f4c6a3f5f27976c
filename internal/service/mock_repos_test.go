package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/model"
)

// ── Mock ShiftRequestRepository ──

type mockShiftRequestRepo struct {
	details  *mockShiftRequestDetailRepo
	requests map[string]*model.ShiftRequest
	seq      int

	// duplicateOnce 模拟并发创建竞争：下一次 Create 先插入对手的表头，
	// 再返回唯一索引冲突
	duplicateOnce *model.ShiftRequest
	// failNextUpdate 模拟一次 CAS 归零（版本号落后）
	failNextUpdate bool
}

func newMockShiftRequestRepo(details *mockShiftRequestDetailRepo) *mockShiftRequestRepo {
	return &mockShiftRequestRepo{
		details:  details,
		requests: make(map[string]*model.ShiftRequest),
	}
}

func (m *mockShiftRequestRepo) seed(req *model.ShiftRequest) {
	if req.ShiftRequestID == "" {
		m.seq++
		req.ShiftRequestID = fmt.Sprintf("req-%d", m.seq)
	}
	if req.Version == 0 {
		req.Version = 1
	}
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	h := *req
	h.Details = nil
	m.requests[req.ShiftRequestID] = &h
}

func (m *mockShiftRequestRepo) findByScope(period, ipressID string) *model.ShiftRequest {
	for _, r := range m.requests {
		if r.Period == period && r.IpressID == ipressID {
			return r
		}
	}
	return nil
}

func (m *mockShiftRequestRepo) Create(_ context.Context, req *model.ShiftRequest) error {
	if m.duplicateOnce != nil {
		rival := m.duplicateOnce
		m.duplicateOnce = nil
		m.seed(rival)
		return gorm.ErrDuplicatedKey
	}
	if m.findByScope(req.Period, req.IpressID) != nil {
		return gorm.ErrDuplicatedKey
	}

	details := req.Details
	m.seed(req)
	// 级联插入明细树
	m.details.store(req.ShiftRequestID, details)
	return nil
}

func (m *mockShiftRequestRepo) GetByID(_ context.Context, id string) (*model.ShiftRequest, error) {
	h, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *h
	out.Details = m.details.treeOf(id)
	return &out, nil
}

func (m *mockShiftRequestRepo) GetHeaderByID(_ context.Context, id string) (*model.ShiftRequest, error) {
	h, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *h
	return &out, nil
}

func (m *mockShiftRequestRepo) GetByScope(_ context.Context, period, ipressID string) (*model.ShiftRequest, error) {
	h := m.findByScope(period, ipressID)
	if h == nil {
		return nil, gorm.ErrRecordNotFound
	}
	out := *h
	out.Details = m.details.treeOf(h.ShiftRequestID)
	return &out, nil
}

func (m *mockShiftRequestRepo) GetHeaderByScope(_ context.Context, period, ipressID string) (*model.ShiftRequest, error) {
	h := m.findByScope(period, ipressID)
	if h == nil {
		return nil, gorm.ErrRecordNotFound
	}
	out := *h
	return &out, nil
}

func (m *mockShiftRequestRepo) ExistsByScope(_ context.Context, period, ipressID string) (bool, error) {
	return m.findByScope(period, ipressID) != nil, nil
}

func (m *mockShiftRequestRepo) ListByIpress(_ context.Context, ipressID string) ([]model.ShiftRequest, error) {
	return m.list(func(r *model.ShiftRequest) bool { return r.IpressID == ipressID }), nil
}

func (m *mockShiftRequestRepo) ListByPeriod(_ context.Context, period string) ([]model.ShiftRequest, error) {
	return m.list(func(r *model.ShiftRequest) bool { return r.Period == period }), nil
}

func (m *mockShiftRequestRepo) ListByStatus(_ context.Context, status string) ([]model.ShiftRequest, error) {
	return m.list(func(r *model.ShiftRequest) bool { return r.Status == status }), nil
}

func (m *mockShiftRequestRepo) list(match func(*model.ShiftRequest) bool) []model.ShiftRequest {
	var result []model.ShiftRequest
	for _, r := range m.requests {
		if match(r) {
			out := *r
			out.Details = m.details.treeOf(r.ShiftRequestID)
			result = append(result, out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ShiftRequestID < result[j].ShiftRequestID
	})
	return result
}

func (m *mockShiftRequestRepo) UpdateStatus(_ context.Context, id, fromStatus string, version int, updates map[string]interface{}) (int64, error) {
	if m.failNextUpdate {
		m.failNextUpdate = false
		return 0, nil
	}
	h, ok := m.requests[id]
	if !ok || h.Status != fromStatus || h.Version != version {
		return 0, nil
	}
	for k, v := range updates {
		switch k {
		case "status":
			h.Status = v.(string)
		case "reject_reason":
			h.RejectReason = v.(string)
		case "submitted_at":
			t := v.(time.Time)
			h.SubmittedAt = &t
		case "updated_by":
			by := v.(string)
			h.UpdatedBy = &by
		}
	}
	h.Version++
	h.UpdatedAt = time.Now()
	return 1, nil
}

func (m *mockShiftRequestRepo) Delete(_ context.Context, id string) error {
	delete(m.requests, id)
	// 外键级联
	m.details.deleteTree(id)
	return nil
}

// ── Mock ShiftRequestDetailRepository ──

type mockShiftRequestDetailRepo struct {
	trees map[string][]model.ShiftRequestDetail
	seq   int
}

func newMockShiftRequestDetailRepo() *mockShiftRequestDetailRepo {
	return &mockShiftRequestDetailRepo{trees: make(map[string][]model.ShiftRequestDetail)}
}

func (m *mockShiftRequestDetailRepo) store(requestID string, details []model.ShiftRequestDetail) {
	stored := make([]model.ShiftRequestDetail, 0, len(details))
	for _, d := range details {
		m.seq++
		d.DetailID = fmt.Sprintf("det-%d", m.seq)
		d.ShiftRequestID = requestID
		dates := make([]model.ShiftRequestDetailDate, 0, len(d.Dates))
		for _, cell := range d.Dates {
			m.seq++
			cell.DetailDateID = fmt.Sprintf("cell-%d", m.seq)
			cell.DetailID = d.DetailID
			dates = append(dates, cell)
		}
		d.Dates = dates
		stored = append(stored, d)
	}
	m.trees[requestID] = stored
}

func (m *mockShiftRequestDetailRepo) treeOf(requestID string) []model.ShiftRequestDetail {
	src := m.trees[requestID]
	out := make([]model.ShiftRequestDetail, len(src))
	copy(out, src)
	return out
}

func (m *mockShiftRequestDetailRepo) deleteTree(requestID string) {
	delete(m.trees, requestID)
}

func (m *mockShiftRequestDetailRepo) ReplaceTree(_ context.Context, requestID string, details []model.ShiftRequestDetail) error {
	m.store(requestID, details)
	return nil
}

func (m *mockShiftRequestDetailRepo) DeleteByRequest(_ context.Context, requestID string) error {
	m.deleteTree(requestID)
	return nil
}

func (m *mockShiftRequestDetailRepo) CountByRequest(_ context.Context, requestID string) (int64, error) {
	return int64(len(m.trees[requestID])), nil
}

// ── Mock IpressRepository ──

type mockIpressRepo struct {
	items map[string]*model.Ipress
	seq   int
}

func newMockIpressRepo() *mockIpressRepo {
	return &mockIpressRepo{items: make(map[string]*model.Ipress)}
}

func (m *mockIpressRepo) Create(_ context.Context, ipress *model.Ipress) error {
	for _, it := range m.items {
		if it.Code == ipress.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if ipress.IpressID == "" {
		m.seq++
		ipress.IpressID = fmt.Sprintf("ipress-%d", m.seq)
	}
	m.items[ipress.IpressID] = ipress
	return nil
}

func (m *mockIpressRepo) GetByID(_ context.Context, id string) (*model.Ipress, error) {
	if it, ok := m.items[id]; ok {
		return it, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIpressRepo) GetByCode(_ context.Context, code string) (*model.Ipress, error) {
	for _, it := range m.items {
		if it.Code == code {
			return it, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIpressRepo) List(_ context.Context, includeInactive bool) ([]model.Ipress, error) {
	var result []model.Ipress
	for _, it := range m.items {
		if !includeInactive && !it.IsActive {
			continue
		}
		result = append(result, *it)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockIpressRepo) Update(_ context.Context, ipress *model.Ipress) error {
	m.items[ipress.IpressID] = ipress
	return nil
}

func (m *mockIpressRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.items, id)
	return nil
}

func (m *mockIpressRepo) ExistsActive(_ context.Context, id string) (bool, error) {
	it, ok := m.items[id]
	return ok && it.IsActive, nil
}

// ── Mock PeriodRepository ──

type mockPeriodRepo struct {
	items map[string]*model.Period
	seq   int
}

func newMockPeriodRepo() *mockPeriodRepo {
	return &mockPeriodRepo{items: make(map[string]*model.Period)}
}

func (m *mockPeriodRepo) Create(_ context.Context, period *model.Period) error {
	for _, it := range m.items {
		if it.Label == period.Label {
			return gorm.ErrDuplicatedKey
		}
	}
	if period.PeriodID == "" {
		m.seq++
		period.PeriodID = fmt.Sprintf("period-%d", m.seq)
	}
	m.items[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.Period, error) {
	if it, ok := m.items[id]; ok {
		return it, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) List(_ context.Context) ([]model.Period, error) {
	var result []model.Period
	for _, it := range m.items {
		result = append(result, *it)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Label > result[j].Label })
	return result, nil
}

func (m *mockPeriodRepo) Update(_ context.Context, period *model.Period) error {
	m.items[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.items, id)
	return nil
}

func (m *mockPeriodRepo) ExistsOpen(_ context.Context, label string) (bool, error) {
	for _, it := range m.items {
		if it.Label == label && it.IsOpen {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByDocument(_ context.Context, document string) (*model.User, error) {
	for _, u := range m.users {
		if u.Document == document {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct {
	entries   []model.AuditLog
	seq       int
	createErr error
}

func newMockAuditLogRepo() *mockAuditLogRepo {
	return &mockAuditLogRepo{}
}

func (m *mockAuditLogRepo) Create(_ context.Context, entry *model.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	entry.AuditLogID = fmt.Sprintf("audit-%d", m.seq)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditLogRepo) ListByRequest(_ context.Context, requestID string) ([]model.AuditLog, error) {
	var result []model.AuditLog
	for _, e := range m.entries {
		if e.ShiftRequestID == requestID {
			result = append(result, e)
		}
	}
	return result, nil
}
