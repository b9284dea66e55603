package services

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vpa-project/vpa-backend/internal/dto"
	"github.com/vpa-project/vpa-backend/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrNotManager  = errors.New("no lot manager profile for this user")
	ErrLotNotFound = errors.New("parking lot not found")
	ErrInvalidFile = errors.New("invalid Excel file")
)

type LotService struct {
	db *gorm.DB
}

func NewLotService(db *gorm.DB) *LotService {
	return &LotService{db: db}
}

func (s *LotService) managerFor(userID uint) (*models.LotManager, error) {
	var manager models.LotManager
	if err := s.db.Where("user_id = ?", userID).First(&manager).Error; err != nil {
		return nil, ErrNotManager
	}
	return &manager, nil
}

// ListLots returns the caller's lots, optionally filtered by a single
// case-insensitive substring over lot name, city, or pincode. A user with
// no manager profile gets an empty list, not an error.
func (s *LotService) ListLots(userID uint, search string) ([]models.ParkingLot, error) {
	manager, err := s.managerFor(userID)
	if err != nil {
		return []models.ParkingLot{}, nil
	}

	query := s.db.Where("manager_id = ?", manager.ID)
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(lot_name) LIKE ? OR LOWER(city) LIKE ? OR LOWER(pincode) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var lots []models.ParkingLot
	if err := query.Order("id").Find(&lots).Error; err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}
	return lots, nil
}

// CreateLot persists the lot, then its spots labeled "1".."N", all
// available. The lot insert must complete first so the spots can reference
// its id; both steps share one transaction.
func (s *LotService) CreateLot(userID uint, req *dto.CreateLotRequest) (*models.ParkingLot, error) {
	manager, err := s.managerFor(userID)
	if err != nil {
		return nil, err
	}

	if req.LotName == "" || req.Pincode == "" {
		return nil, errors.New("lot name and pincode are required")
	}
	if req.NumberOfSpots <= 0 {
		return nil, errors.New("number of spots must be positive")
	}

	lot := models.ParkingLot{
		LotName:       req.LotName,
		Address:       req.Address,
		City:          req.City,
		Pincode:       req.Pincode,
		NumberOfSpots: req.NumberOfSpots,
		PricePerHour:  req.PricePerHour,
		ManagerID:     manager.ID,
	}

	if err := s.createLotWithSpots(&lot); err != nil {
		return nil, err
	}
	return &lot, nil
}

func (s *LotService) createLotWithSpots(lot *models.ParkingLot) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lot).Error; err != nil {
			return fmt.Errorf("failed to create lot: %w", err)
		}

		spots := make([]models.ParkingSpot, 0, lot.NumberOfSpots)
		for i := 1; i <= lot.NumberOfSpots; i++ {
			spots = append(spots, models.ParkingSpot{
				LotID:      lot.ID,
				SpotNumber: strconv.Itoa(i),
				Status:     models.SpotAvailable,
			})
		}
		if err := tx.Create(&spots).Error; err != nil {
			return fmt.Errorf("failed to create spots: %w", err)
		}
		return nil
	})
}

// GetLot fetches one of the caller's lots. A lot that does not exist and a
// lot owned by another manager are both not-found.
func (s *LotService) GetLot(userID, lotID uint) (*models.ParkingLot, error) {
	manager, err := s.managerFor(userID)
	if err != nil {
		return nil, err
	}

	var lot models.ParkingLot
	if err := s.db.Where("id = ? AND manager_id = ?", lotID, manager.ID).First(&lot).Error; err != nil {
		return nil, ErrLotNotFound
	}
	return &lot, nil
}

// UpdateLot edits name/address/city/pincode/price in place. Spots are
// never touched and the spot count never changes here.
func (s *LotService) UpdateLot(userID, lotID uint, req *dto.UpdateLotRequest) (*models.ParkingLot, error) {
	lot, err := s.GetLot(userID, lotID)
	if err != nil {
		return nil, err
	}

	if req.LotName == "" || req.Pincode == "" {
		return nil, errors.New("lot name and pincode are required")
	}

	lot.LotName = req.LotName
	lot.Address = req.Address
	lot.City = req.City
	lot.Pincode = req.Pincode
	lot.PricePerHour = req.PricePerHour

	if err := s.db.Save(lot).Error; err != nil {
		return nil, fmt.Errorf("failed to update lot: %w", err)
	}
	return lot, nil
}

// DeleteLot removes the lot and all of its spots in one transaction. No
// spot row may survive its lot.
func (s *LotService) DeleteLot(userID, lotID uint) error {
	lot, err := s.GetLot(userID, lotID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lot_id = ?", lot.ID).Delete(&models.ParkingSpot{}).Error; err != nil {
			return fmt.Errorf("failed to delete spots: %w", err)
		}
		if err := tx.Delete(lot).Error; err != nil {
			return fmt.Errorf("failed to delete lot: %w", err)
		}
		return nil
	})
}

// ListSpots returns the spots of one of the caller's lots.
func (s *LotService) ListSpots(userID, lotID uint) ([]models.ParkingSpot, error) {
	lot, err := s.GetLot(userID, lotID)
	if err != nil {
		return nil, err
	}

	var spots []models.ParkingSpot
	if err := s.db.Where("lot_id = ?", lot.ID).Order("id").Find(&spots).Error; err != nil {
		return nil, fmt.Errorf("failed to list spots: %w", err)
	}
	return spots, nil
}

// ImportLots bulk-creates lots from an uploaded xlsx. Expected columns:
// lot_name, address, city, pincode, number_of_spots, price_per_hour. The
// header row is skipped and short or invalid rows are counted, not fatal.
func (s *LotService) ImportLots(userID uint, r io.Reader) (*dto.ImportLotsResponse, error) {
	manager, err := s.managerFor(userID)
	if err != nil {
		return nil, err
	}

	xlsx, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrInvalidFile
	}
	defer xlsx.Close()

	rows, err := xlsx.GetRows(xlsx.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	resp := &dto.ImportLotsResponse{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 5 {
			resp.Skipped++
			continue
		}

		spots, err := strconv.Atoi(strings.TrimSpace(row[4]))
		if err != nil || spots <= 0 || row[0] == "" || row[3] == "" {
			resp.Skipped++
			continue
		}

		lot := models.ParkingLot{
			LotName:       strings.TrimSpace(row[0]),
			Address:       strings.TrimSpace(row[1]),
			City:          strings.TrimSpace(row[2]),
			Pincode:       strings.TrimSpace(row[3]),
			NumberOfSpots: spots,
			ManagerID:     manager.ID,
		}
		if len(row) > 5 && row[5] != "" {
			if price, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64); err == nil {
				lot.PricePerHour = &price
			}
		}

		if err := s.createLotWithSpots(&lot); err != nil {
			resp.Skipped++
			continue
		}
		resp.Imported++
	}

	return resp, nil
}

// AdminListLots returns every lot across all managers.
func (s *LotService) AdminListLots() ([]models.ParkingLot, error) {
	var lots []models.ParkingLot
	if err := s.db.Order("id").Find(&lots).Error; err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}
	return lots, nil
}
