//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/model"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=cenate password=cenate_password dbname=cenate_turnos_test sslmode=disable TimeZone=America/Lima"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	err = testDB.AutoMigrate(
		&model.Ipress{},
		&model.Period{},
		&model.User{},
		&model.ShiftRequest{},
		&model.ShiftRequestDetail{},
		&model.ShiftRequestDetailDate{},
		&model.AuditLog{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTestScope 创建一个机构 + 开放周期并返回清理函数
func setupTestScope(t *testing.T) (ipress *model.Ipress, period *model.Period, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	ipress = &model.Ipress{
		Code:     fmt.Sprintf("%d", time.Now().UnixNano()%100000000),
		Name:     "CAP III de Prueba",
		IsActive: true,
	}
	if err := testDB.WithContext(ctx).Create(ipress).Error; err != nil {
		t.Fatalf("创建机构失败: %v", err)
	}

	period = &model.Period{
		Label:  fmt.Sprintf("T-%d", time.Now().UnixNano()%1000000000),
		IsOpen: true,
	}
	if err := testDB.WithContext(ctx).Create(period).Error; err != nil {
		t.Fatalf("创建周期失败: %v", err)
	}

	cleanup = func() {
		testDB.Where("ipress_id = ?", ipress.IpressID).Delete(&model.ShiftRequest{})
		testDB.Unscoped().Where("period_id = ?", period.PeriodID).Delete(&model.Period{})
		testDB.Unscoped().Where("ipress_id = ?", ipress.IpressID).Delete(&model.Ipress{})
	}
	return ipress, period, cleanup
}

func sampleTree() []model.ShiftRequestDetail {
	return []model.ShiftRequestDetail{
		{
			HospitalAreaID: "11111111-2222-3333-4444-555555555551",
			ServiceID:      "11111111-2222-3333-4444-555555555552",
			ActivityID:     "11111111-2222-3333-4444-555555555553",
			Dates: []model.ShiftRequestDetailDate{
				{Date: time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), Block: "MANANA"},
				{Date: time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), Block: "TARDE"},
			},
		},
	}
}

// ═══════════════════════════════════════════════════════════
// 唯一索引与级联
// ═══════════════════════════════════════════════════════════

func TestUniqueScopeIndex(t *testing.T) {
	ipress, period, cleanup := setupTestScope(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.ShiftRequest{
		Period:   period.Label,
		IpressID: ipress.IpressID,
		Status:   model.StatusDraft,
	}
	if err := repo.ShiftRequest.Create(ctx, first); err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}

	second := &model.ShiftRequest{
		Period:   period.Label,
		IpressID: ipress.IpressID,
		Status:   model.StatusDraft,
	}
	err := repo.ShiftRequest.Create(ctx, second)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("同范围重复创建期望 ErrDuplicatedKey, 实际 %v", err)
	}
}

func TestCascadeDelete(t *testing.T) {
	ipress, period, cleanup := setupTestScope(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	req := &model.ShiftRequest{
		Period:   period.Label,
		IpressID: ipress.IpressID,
		Status:   model.StatusDraft,
		Details:  sampleTree(),
	}
	if err := repo.ShiftRequest.Create(ctx, req); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if err := repo.ShiftRequest.Delete(ctx, req.ShiftRequestID); err != nil {
		t.Fatalf("删除表头失败: %v", err)
	}

	var detailCount, dateCount int64
	testDB.Model(&model.ShiftRequestDetail{}).
		Where("shift_request_id = ?", req.ShiftRequestID).
		Count(&detailCount)
	testDB.Model(&model.ShiftRequestDetailDate{}).
		Joins("JOIN shift_request_details d ON d.detail_id = shift_request_detail_dates.detail_id").
		Where("d.shift_request_id = ?", req.ShiftRequestID).
		Count(&dateCount)
	if detailCount != 0 || dateCount != 0 {
		t.Errorf("子树应级联删除: details=%d dates=%d", detailCount, dateCount)
	}
}

func TestDetailDateUniqueIndex(t *testing.T) {
	ipress, period, cleanup := setupTestScope(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	req := &model.ShiftRequest{
		Period:   period.Label,
		IpressID: ipress.IpressID,
		Status:   model.StatusDraft,
		Details:  sampleTree(),
	}
	if err := repo.ShiftRequest.Create(ctx, req); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	var detail model.ShiftRequestDetail
	if err := testDB.Where("shift_request_id = ?", req.ShiftRequestID).First(&detail).Error; err != nil {
		t.Fatalf("读取明细失败: %v", err)
	}

	dup := &model.ShiftRequestDetailDate{
		DetailID: detail.DetailID,
		Date:     time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC),
		Block:    "MANANA",
	}
	if err := testDB.Create(dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("重复单元格期望 ErrDuplicatedKey, 实际 %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// CAS 条件更新
// ═══════════════════════════════════════════════════════════

func TestUpdateStatus_CAS(t *testing.T) {
	ipress, period, cleanup := setupTestScope(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	req := &model.ShiftRequest{
		Period:   period.Label,
		IpressID: ipress.IpressID,
		Status:   model.StatusDraft,
	}
	if err := repo.ShiftRequest.Create(ctx, req); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// version 匹配：流转成功并递增版本号
	rows, err := repo.ShiftRequest.UpdateStatus(ctx, req.ShiftRequestID, model.StatusDraft, req.Version,
		map[string]interface{}{"status": model.StatusSubmitted, "submitted_at": time.Now()})
	if err != nil || rows != 1 {
		t.Fatalf("CAS 更新应影响 1 行: rows=%d err=%v", rows, err)
	}

	current, err := repo.ShiftRequest.GetHeaderByID(ctx, req.ShiftRequestID)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if current.Status != model.StatusSubmitted || current.Version != req.Version+1 {
		t.Errorf("状态或版本号不正确: status=%s version=%d", current.Status, current.Version)
	}

	// 过期版本号：归零
	rows, err = repo.ShiftRequest.UpdateStatus(ctx, req.ShiftRequestID, model.StatusSubmitted, req.Version,
		map[string]interface{}{"status": model.StatusApproved})
	if err != nil || rows != 0 {
		t.Fatalf("过期版本 CAS 应归零: rows=%d err=%v", rows, err)
	}

	// 错误的起始状态：归零
	rows, err = repo.ShiftRequest.UpdateStatus(ctx, req.ShiftRequestID, model.StatusDraft, current.Version,
		map[string]interface{}{"status": model.StatusApproved})
	if err != nil || rows != 0 {
		t.Fatalf("状态不匹配 CAS 应归零: rows=%d err=%v", rows, err)
	}
}

// ═══════════════════════════════════════════════════════════
// 整树覆盖
// ═══════════════════════════════════════════════════════════

func TestReplaceTree(t *testing.T) {
	ipress, period, cleanup := setupTestScope(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	req := &model.ShiftRequest{
		Period:   period.Label,
		IpressID: ipress.IpressID,
		Status:   model.StatusDraft,
		Details:  sampleTree(),
	}
	if err := repo.ShiftRequest.Create(ctx, req); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	replacement := []model.ShiftRequestDetail{
		{
			HospitalAreaID: "99999999-2222-3333-4444-555555555551",
			ServiceID:      "99999999-2222-3333-4444-555555555552",
			ActivityID:     "99999999-2222-3333-4444-555555555553",
			Dates: []model.ShiftRequestDetailDate{
				{Date: time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC), Block: "NOCHE"},
			},
		},
	}
	if err := repo.ShiftRequestDetail.ReplaceTree(ctx, req.ShiftRequestID, replacement); err != nil {
		t.Fatalf("ReplaceTree 失败: %v", err)
	}

	loaded, err := repo.ShiftRequest.GetByID(ctx, req.ShiftRequestID)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if len(loaded.Details) != 1 {
		t.Fatalf("期望 1 条明细, 实际 %d", len(loaded.Details))
	}
	if loaded.Details[0].HospitalAreaID != "99999999-2222-3333-4444-555555555551" {
		t.Errorf("旧明细应被整体替换")
	}
	if len(loaded.Details[0].Dates) != 1 || loaded.Details[0].Dates[0].Block != "NOCHE" {
		t.Errorf("单元格未随树替换: %+v", loaded.Details[0].Dates)
	}
}

// ═══════════════════════════════════════════════════════════
// 目录查询
// ═══════════════════════════════════════════════════════════

func TestIpressExistsActive(t *testing.T) {
	ipress, _, cleanup := setupTestScope(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	ok, err := repo.Ipress.ExistsActive(ctx, ipress.IpressID)
	if err != nil || !ok {
		t.Fatalf("启用机构应存在: ok=%v err=%v", ok, err)
	}

	testDB.Model(&model.Ipress{}).
		Where("ipress_id = ?", ipress.IpressID).
		Update("is_active", false)

	ok, err = repo.Ipress.ExistsActive(ctx, ipress.IpressID)
	if err != nil || ok {
		t.Fatalf("停用机构不应通过: ok=%v err=%v", ok, err)
	}
}

func TestPeriodExistsOpen(t *testing.T) {
	_, period, cleanup := setupTestScope(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	ok, err := repo.Period.ExistsOpen(ctx, period.Label)
	if err != nil || !ok {
		t.Fatalf("开放周期应存在: ok=%v err=%v", ok, err)
	}

	testDB.Model(&model.Period{}).
		Where("period_id = ?", period.PeriodID).
		Update("is_open", false)

	ok, err = repo.Period.ExistsOpen(ctx, period.Label)
	if err != nil || ok {
		t.Fatalf("关闭周期不应通过: ok=%v err=%v", ok, err)
	}
}
