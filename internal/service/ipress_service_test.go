package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/dto"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/repository"
)

func setupIpressTest() (IpressService, *mockIpressRepo) {
	ipressRepo := newMockIpressRepo()
	repo := &repository.Repository{Ipress: ipressRepo}
	return NewIpressService(repo, zap.NewNop()), ipressRepo
}

func TestIpressService_Create_Success(t *testing.T) {
	svc, _ := setupIpressTest()

	resp, err := svc.Create(context.Background(), &dto.CreateIpressRequest{
		Code:    "00004389",
		Name:    "CAP III Metropolitano",
		Network: "Red Asistencial Lambayeque",
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if resp.ID == "" || !resp.IsActive {
		t.Errorf("新机构应默认启用: %+v", resp)
	}
}

func TestIpressService_Create_DuplicateCode(t *testing.T) {
	svc, _ := setupIpressTest()
	ctx := context.Background()

	req := &dto.CreateIpressRequest{Code: "00004389", Name: "CAP III Metropolitano"}
	if _, err := svc.Create(ctx, req, "admin-1"); err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}
	if _, err := svc.Create(ctx, req, "admin-1"); !errors.Is(err, ErrIpressCodeExists) {
		t.Fatalf("期望 ErrIpressCodeExists, 实际 %v", err)
	}
}

func TestIpressService_Update(t *testing.T) {
	svc, _ := setupIpressTest()
	ctx := context.Background()

	created, _ := svc.Create(ctx, &dto.CreateIpressRequest{
		Code: "00004389", Name: "CAP III Metropolitano",
	}, "admin-1")

	newName := "CAP III Metropolitano - Chiclayo"
	inactive := false
	resp, err := svc.Update(ctx, created.ID, &dto.UpdateIpressRequest{
		Name:     &newName,
		IsActive: &inactive,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Update 失败: %v", err)
	}
	if resp.Name != newName || resp.IsActive {
		t.Errorf("更新未生效: %+v", resp)
	}
}

func TestIpressService_List_FiltersInactive(t *testing.T) {
	svc, _ := setupIpressTest()
	ctx := context.Background()

	a, _ := svc.Create(ctx, &dto.CreateIpressRequest{Code: "00001111", Name: "Posta A"}, "admin-1")
	svc.Create(ctx, &dto.CreateIpressRequest{Code: "00002222", Name: "Posta B"}, "admin-1")

	inactive := false
	svc.Update(ctx, a.ID, &dto.UpdateIpressRequest{IsActive: &inactive}, "admin-1")

	actives, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(actives) != 1 || actives[0].Code != "00002222" {
		t.Errorf("默认仅列启用机构: %+v", actives)
	}

	all, _ := svc.List(ctx, true)
	if len(all) != 2 {
		t.Errorf("includeInactive 应返回全部: %d", len(all))
	}
}

func TestIpressService_Delete_NotExists(t *testing.T) {
	svc, _ := setupIpressTest()

	if err := svc.Delete(context.Background(), "ipress-ghost", "admin-1"); !errors.Is(err, ErrIpressNotExists) {
		t.Fatalf("期望 ErrIpressNotExists, 实际 %v", err)
	}
}
