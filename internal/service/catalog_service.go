package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/model"
	"github.com/minsu-dev/eduops/internal/repository"
)

// CatalogService covers the administrative master data: instructors,
// institutions, zones, the master-code taxonomy, trainings and their
// schedule periods, and the travel policy table.
type CatalogService struct {
	instructors  *repository.InstructorRepository
	institutions *repository.InstitutionRepository
	zones        *repository.ZoneRepository
	masterCodes  *repository.MasterCodeRepository
	trainings    *repository.TrainingRepository
	policies     *repository.PolicyRepository
}

func NewCatalogService(
	instructors *repository.InstructorRepository,
	institutions *repository.InstitutionRepository,
	zones *repository.ZoneRepository,
	masterCodes *repository.MasterCodeRepository,
	trainings *repository.TrainingRepository,
	policies *repository.PolicyRepository,
) *CatalogService {
	return &CatalogService{
		instructors:  instructors,
		institutions: institutions,
		zones:        zones,
		masterCodes:  masterCodes,
		trainings:    trainings,
		policies:     policies,
	}
}

type CreateInstructorInput struct {
	Name          string
	Phone         string
	Email         string
	HomeAddress   *string
	HomeLatitude  *float64
	HomeLongitude *float64
}

func (s *CatalogService) CreateInstructor(ctx context.Context, input CreateInstructorInput) (*model.Instructor, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return s.instructors.Create(ctx, &model.Instructor{
		Name:          strings.TrimSpace(input.Name),
		Phone:         input.Phone,
		Email:         input.Email,
		HomeAddress:   input.HomeAddress,
		HomeLatitude:  input.HomeLatitude,
		HomeLongitude: input.HomeLongitude,
		IsActive:      true,
	})
}

func (s *CatalogService) GetInstructor(ctx context.Context, id uuid.UUID) (*model.Instructor, error) {
	instructor, err := s.instructors.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return instructor, nil
}

func (s *CatalogService) ListInstructors(ctx context.Context, includeInactive bool) ([]model.Instructor, error) {
	return s.instructors.List(ctx, includeInactive)
}

func (s *CatalogService) DeactivateInstructor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.instructors.GetByID(ctx, id); err != nil {
		return mapNotFound(err)
	}
	return s.instructors.SetActive(ctx, id, false)
}

type CreateInstitutionInput struct {
	Name      string
	Address   *string
	Latitude  *float64
	Longitude *float64
	Phone     string
	ZoneID    *uuid.UUID
}

func (s *CatalogService) CreateInstitution(ctx context.Context, input CreateInstitutionInput) (*model.Institution, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.ZoneID != nil {
		if _, err := s.zones.GetByID(ctx, *input.ZoneID); err != nil {
			return nil, mapNotFound(err)
		}
	}
	return s.institutions.Create(ctx, &model.Institution{
		Name:      strings.TrimSpace(input.Name),
		Address:   input.Address,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Phone:     input.Phone,
		ZoneID:    input.ZoneID,
		IsActive:  true,
	})
}

func (s *CatalogService) GetInstitution(ctx context.Context, id uuid.UUID) (*model.Institution, error) {
	institution, err := s.institutions.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return institution, nil
}

func (s *CatalogService) ListInstitutions(ctx context.Context, zoneID *uuid.UUID) ([]model.Institution, error) {
	return s.institutions.List(ctx, zoneID)
}

func (s *CatalogService) CreateZone(ctx context.Context, code, name string) (*model.Zone, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: code and name are required", ErrInvalidInput)
	}
	return s.zones.Create(ctx, &model.Zone{Code: code, Name: name})
}

func (s *CatalogService) ListZones(ctx context.Context) ([]model.Zone, error) {
	return s.zones.List(ctx)
}

type CreateMasterCodeInput struct {
	Code      string
	Name      string
	ParentID  *uuid.UUID
	SortOrder int
}

func (s *CatalogService) CreateMasterCode(ctx context.Context, input CreateMasterCodeInput) (*model.MasterCode, error) {
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: code and name are required", ErrInvalidInput)
	}

	depth := 0
	if input.ParentID != nil {
		parent, err := s.masterCodes.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, mapNotFound(err)
		}
		depth = parent.Depth + 1
	}

	return s.masterCodes.Create(ctx, &model.MasterCode{
		Code:      code,
		Name:      name,
		ParentID:  input.ParentID,
		Depth:     depth,
		SortOrder: input.SortOrder,
		IsActive:  true,
	})
}

// ListMasterCodes returns roots when parentID is nil, otherwise the
// direct children of the given node, ordered by sort order.
func (s *CatalogService) ListMasterCodes(ctx context.Context, parentID *uuid.UUID) ([]model.MasterCode, error) {
	return s.masterCodes.ListByParent(ctx, parentID)
}

func (s *CatalogService) DeactivateMasterCode(ctx context.Context, id uuid.UUID) error {
	if _, err := s.masterCodes.GetByID(ctx, id); err != nil {
		return mapNotFound(err)
	}
	return s.masterCodes.SetActive(ctx, id, false)
}

type CreateTrainingInput struct {
	Name         string
	CategoryCode string
	StartDate    time.Time
	EndDate      time.Time
}

func (s *CatalogService) CreateTraining(ctx context.Context, input CreateTrainingInput) (*model.Training, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() || input.StartDate.After(input.EndDate) {
		return nil, fmt.Errorf("%w: invalid training date range", ErrInvalidInput)
	}
	return s.trainings.Create(ctx, &model.Training{
		Name:         strings.TrimSpace(input.Name),
		CategoryCode: input.CategoryCode,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
	})
}

type CreatePeriodInput struct {
	TrainingID    uuid.UUID
	InstructorID  uuid.UUID
	InstitutionID uuid.UUID
	StartAt       time.Time
	EndAt         time.Time
}

func (s *CatalogService) CreateTrainingPeriod(ctx context.Context, input CreatePeriodInput) (*model.TrainingPeriod, error) {
	if input.StartAt.IsZero() || input.EndAt.IsZero() || !input.StartAt.Before(input.EndAt) {
		return nil, fmt.Errorf("%w: invalid period time range", ErrInvalidInput)
	}
	if _, err := s.trainings.GetByID(ctx, input.TrainingID); err != nil {
		return nil, mapNotFound(err)
	}
	if _, err := s.instructors.GetByID(ctx, input.InstructorID); err != nil {
		return nil, mapNotFound(err)
	}
	if _, err := s.institutions.GetByID(ctx, input.InstitutionID); err != nil {
		return nil, mapNotFound(err)
	}

	return s.trainings.CreatePeriod(ctx, &model.TrainingPeriod{
		TrainingID:    input.TrainingID,
		InstructorID:  input.InstructorID,
		InstitutionID: input.InstitutionID,
		PeriodDate:    dateOnly(input.StartAt),
		StartAt:       input.StartAt,
		EndAt:         input.EndAt,
	})
}

func (s *CatalogService) ListPeriodsForInstructor(ctx context.Context, instructorID uuid.UUID, from, to time.Time) ([]model.TrainingPeriod, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}
	return s.trainings.ListPeriodsForInstructor(ctx, instructorID, dateOnly(from), dateOnly(to))
}

type CreatePolicyInput struct {
	MinKm     float64
	MaxKm     *float64
	AmountKrw int64
	ValidFrom *time.Time
	ValidTo   *time.Time
}

func (s *CatalogService) CreatePolicy(ctx context.Context, input CreatePolicyInput) (*model.TravelPolicy, error) {
	if input.MinKm < 0 {
		return nil, fmt.Errorf("%w: min_km must not be negative", ErrInvalidInput)
	}
	if input.MaxKm != nil && *input.MaxKm <= input.MinKm {
		return nil, fmt.Errorf("%w: max_km must be greater than min_km", ErrInvalidInput)
	}
	if input.AmountKrw < 0 {
		return nil, fmt.Errorf("%w: amount_krw must not be negative", ErrInvalidInput)
	}
	return s.policies.Create(ctx, &model.TravelPolicy{
		MinKm:     input.MinKm,
		MaxKm:     input.MaxKm,
		AmountKrw: input.AmountKrw,
		IsActive:  true,
		ValidFrom: input.ValidFrom,
		ValidTo:   input.ValidTo,
	})
}

func (s *CatalogService) ListPolicies(ctx context.Context, includeInactive bool) ([]model.TravelPolicy, error) {
	return s.policies.List(ctx, includeInactive)
}

func (s *CatalogService) DeactivatePolicy(ctx context.Context, id uuid.UUID) error {
	if _, err := s.policies.GetByID(ctx, id); err != nil {
		return mapNotFound(err)
	}
	return s.policies.SetActive(ctx, id, false)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
