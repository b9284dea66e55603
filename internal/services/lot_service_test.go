package services

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/vpa-project/vpa-backend/internal/dto"
	"github.com/vpa-project/vpa-backend/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func createManager(t *testing.T, db *gorm.DB, email, mobile string) uint {
	t.Helper()
	user := models.User{Username: "manager", Email: email, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	mgr := models.LotManager{UserID: user.ID, MobileNumber: mobile}
	if err := db.Create(&mgr).Error; err != nil {
		t.Fatalf("create manager profile: %v", err)
	}
	return user.ID
}

func createPlainUser(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()
	user := models.User{Username: "plain", Email: email, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.ID
}

func lotRequest(name, city, pincode string, spots int) *dto.CreateLotRequest {
	return &dto.CreateLotRequest{
		LotName:       name,
		Address:       "1 Test Street",
		City:          city,
		Pincode:       pincode,
		NumberOfSpots: spots,
	}
}

func TestCreateLotSpots(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	userID := createManager(t, db, "mgr@example.com", "9000000001")

	lot, err := svc.CreateLot(userID, lotRequest("Central Mall", "Chennai", "600001", 5))
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}

	var spots []models.ParkingSpot
	if err := db.Where("lot_id = ?", lot.ID).Order("id").Find(&spots).Error; err != nil {
		t.Fatalf("load spots: %v", err)
	}
	if len(spots) != 5 {
		t.Fatalf("spot count = %d, want 5", len(spots))
	}
	for i, spot := range spots {
		if want := strconv.Itoa(i + 1); spot.SpotNumber != want {
			t.Errorf("spot %d label = %q, want %q", i, spot.SpotNumber, want)
		}
		if spot.Status != models.SpotAvailable {
			t.Errorf("spot %d status = %q, want available", i, spot.Status)
		}
		if spot.LotID != lot.ID {
			t.Errorf("spot %d lot id = %d, want %d", i, spot.LotID, lot.ID)
		}
	}
}

func TestCreateLotInvalidSpotCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	userID := createManager(t, db, "mgr@example.com", "9000000001")

	for _, n := range []int{0, -3} {
		if _, err := svc.CreateLot(userID, lotRequest("Bad Lot", "Chennai", "600001", n)); err == nil {
			t.Errorf("spot count %d: expected error, got nil", n)
		}
	}

	if n := count(t, db, &models.ParkingLot{}); n != 0 {
		t.Errorf("lots created despite invalid spot count: %d", n)
	}
}

func TestCreateLotRequiresManagerProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	userID := createPlainUser(t, db, "plain@example.com")

	_, err := svc.CreateLot(userID, lotRequest("Central Mall", "Chennai", "600001", 3))
	if !errors.Is(err, ErrNotManager) {
		t.Fatalf("expected ErrNotManager, got %v", err)
	}
}

func TestListLotsSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	userID := createManager(t, db, "mgr@example.com", "9000000001")

	if _, err := svc.CreateLot(userID, lotRequest("Central Mall", "Chennai", "600001", 2)); err != nil {
		t.Fatalf("create lot: %v", err)
	}
	if _, err := svc.CreateLot(userID, lotRequest("North Plaza", "Mumbai", "400001", 2)); err != nil {
		t.Fatalf("create lot: %v", err)
	}

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"empty term returns all", "", []string{"Central Mall", "North Plaza"}},
		{"name substring, case-insensitive", "plaza", []string{"North Plaza"}},
		{"city match", "chennai", []string{"Central Mall"}},
		{"pincode match", "4000", []string{"North Plaza"}},
		{"no match", "airport", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lots, err := svc.ListLots(userID, tt.search)
			if err != nil {
				t.Fatalf("list lots: %v", err)
			}
			if len(lots) != len(tt.want) {
				t.Fatalf("got %d lots, want %d", len(lots), len(tt.want))
			}
			for i, name := range tt.want {
				if lots[i].LotName != name {
					t.Errorf("lot %d = %q, want %q", i, lots[i].LotName, name)
				}
			}
		})
	}
}

func TestListLotsWithoutProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	userID := createPlainUser(t, db, "plain@example.com")

	lots, err := svc.ListLots(userID, "")
	if err != nil {
		t.Fatalf("list lots: %v", err)
	}
	if len(lots) != 0 {
		t.Errorf("got %d lots, want empty list", len(lots))
	}
}

func TestListLotsScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	alice := createManager(t, db, "alice@example.com", "9000000001")
	bob := createManager(t, db, "bob@example.com", "9000000002")

	if _, err := svc.CreateLot(alice, lotRequest("Alice Lot", "Chennai", "600001", 1)); err != nil {
		t.Fatalf("create lot: %v", err)
	}

	lots, err := svc.ListLots(bob, "")
	if err != nil {
		t.Fatalf("list lots: %v", err)
	}
	if len(lots) != 0 {
		t.Errorf("bob sees %d of alice's lots", len(lots))
	}
}

func TestUpdateLot(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	userID := createManager(t, db, "mgr@example.com", "9000000001")

	lot, err := svc.CreateLot(userID, lotRequest("Central Mall", "Chennai", "600001", 4))
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}

	price := 25.0
	updated, err := svc.UpdateLot(userID, lot.ID, &dto.UpdateLotRequest{
		LotName:      "Central Mall West",
		Address:      "2 New Street",
		City:         "Chennai",
		Pincode:      "600002",
		PricePerHour: &price,
	})
	if err != nil {
		t.Fatalf("update lot: %v", err)
	}
	if updated.LotName != "Central Mall West" || updated.Pincode != "600002" {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.PricePerHour == nil || *updated.PricePerHour != 25.0 {
		t.Error("price not applied")
	}

	// Editing never touches spots or the recorded spot count.
	if updated.NumberOfSpots != 4 {
		t.Errorf("spot count changed to %d on edit", updated.NumberOfSpots)
	}
	var spots int64
	db.Model(&models.ParkingSpot{}).Where("lot_id = ?", lot.ID).Count(&spots)
	if spots != 4 {
		t.Errorf("spot rows = %d after edit, want 4", spots)
	}
}

func TestUpdateLotOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	alice := createManager(t, db, "alice@example.com", "9000000001")
	bob := createManager(t, db, "bob@example.com", "9000000002")

	lot, err := svc.CreateLot(alice, lotRequest("Alice Lot", "Chennai", "600001", 1))
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}

	_, err = svc.UpdateLot(bob, lot.ID, &dto.UpdateLotRequest{LotName: "Hijacked", Pincode: "1"})
	if !errors.Is(err, ErrLotNotFound) {
		t.Fatalf("expected ErrLotNotFound for foreign lot, got %v", err)
	}

	if _, err := svc.GetLot(alice, lot.ID+100); !errors.Is(err, ErrLotNotFound) {
		t.Fatalf("expected ErrLotNotFound for missing lot, got %v", err)
	}
}

func TestDeleteLotCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	userID := createManager(t, db, "mgr@example.com", "9000000001")

	lot, err := svc.CreateLot(userID, lotRequest("Central Mall", "Chennai", "600001", 6))
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}
	keep, err := svc.CreateLot(userID, lotRequest("North Plaza", "Mumbai", "400001", 2))
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}

	if err := svc.DeleteLot(userID, lot.ID); err != nil {
		t.Fatalf("delete lot: %v", err)
	}

	var orphans int64
	db.Model(&models.ParkingSpot{}).Where("lot_id = ?", lot.ID).Count(&orphans)
	if orphans != 0 {
		t.Errorf("%d spots survived their lot", orphans)
	}

	if _, err := svc.GetLot(userID, lot.ID); !errors.Is(err, ErrLotNotFound) {
		t.Fatalf("deleted lot still found: %v", err)
	}

	// The other lot and its spots are untouched.
	var remaining int64
	db.Model(&models.ParkingSpot{}).Where("lot_id = ?", keep.ID).Count(&remaining)
	if remaining != 2 {
		t.Errorf("unrelated lot has %d spots, want 2", remaining)
	}
}

func TestListSpots(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	userID := createManager(t, db, "mgr@example.com", "9000000001")

	lot, err := svc.CreateLot(userID, lotRequest("Central Mall", "Chennai", "600001", 3))
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}

	spots, err := svc.ListSpots(userID, lot.ID)
	if err != nil {
		t.Fatalf("list spots: %v", err)
	}
	if len(spots) != 3 {
		t.Fatalf("got %d spots, want 3", len(spots))
	}
	if spots[0].SpotNumber != "1" || spots[2].SpotNumber != "3" {
		t.Errorf("unexpected labels: %q..%q", spots[0].SpotNumber, spots[2].SpotNumber)
	}
}

func TestImportLots(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	userID := createManager(t, db, "mgr@example.com", "9000000001")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"lot_name", "address", "city", "pincode", "number_of_spots", "price_per_hour"},
		{"Central Mall", "1 Main St", "Chennai", "600001", "3", "20.5"},
		{"North Plaza", "2 High St", "Mumbai", "400001", "2", ""},
		{"Short Row"},
		{"Bad Count", "3 Side St", "Pune", "411001", "zero", ""},
	}
	for i, row := range rows {
		if err := f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &row); err != nil {
			t.Fatalf("build sheet: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	resp, err := svc.ImportLots(userID, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if resp.Imported != 2 || resp.Skipped != 2 {
		t.Fatalf("imported/skipped = %d/%d, want 2/2", resp.Imported, resp.Skipped)
	}

	lots, err := svc.ListLots(userID, "")
	if err != nil {
		t.Fatalf("list lots: %v", err)
	}
	if len(lots) != 2 {
		t.Fatalf("got %d lots, want 2", len(lots))
	}
	if lots[0].PricePerHour == nil || *lots[0].PricePerHour != 20.5 {
		t.Error("price column not applied")
	}

	var spots int64
	db.Model(&models.ParkingSpot{}).Count(&spots)
	if spots != 5 {
		t.Errorf("spot rows = %d, want 5", spots)
	}
}

func TestImportLotsRejectsGarbage(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	userID := createManager(t, db, "mgr@example.com", "9000000001")

	_, err := svc.ImportLots(userID, bytes.NewReader([]byte("not a workbook")))
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("expected ErrInvalidFile, got %v", err)
	}
}

func TestAdminListLots(t *testing.T) {
	db := newTestDB(t)
	svc := NewLotService(db)
	alice := createManager(t, db, "alice@example.com", "9000000001")
	bob := createManager(t, db, "bob@example.com", "9000000002")

	if _, err := svc.CreateLot(alice, lotRequest("Alice Lot", "Chennai", "600001", 1)); err != nil {
		t.Fatalf("create lot: %v", err)
	}
	if _, err := svc.CreateLot(bob, lotRequest("Bob Lot", "Mumbai", "400001", 1)); err != nil {
		t.Fatalf("create lot: %v", err)
	}

	lots, err := svc.AdminListLots()
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(lots) != 2 {
		t.Errorf("got %d lots, want 2", len(lots))
	}
}
