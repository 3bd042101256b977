package persistent

import (
	"errors"

	"collabnet/internal/entity"
	"collabnet/internal/model"

	"gorm.io/gorm"
)

// Actor profiles belong to the profile service; this package only reads them.

type IndividualRepository interface {
	Exists(id string) (bool, error)
	Name(id string) (string, error)
}

type OrganizationRepository interface {
	Exists(id string) (bool, error)
	Name(id string) (string, error)
	Sector(id string) (string, error)
}

type individualRepository struct {
	db *gorm.DB
}

func NewIndividualRepository(db *gorm.DB) IndividualRepository {
	return &individualRepository{db: db}
}

func (r *individualRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&model.IndividualModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *individualRepository) Name(id string) (string, error) {
	var ind model.IndividualModel
	if err := r.db.Select("username").Where("id = ?", id).First(&ind).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", entity.ErrNotFound
		}
		return "", err
	}
	return ind.Username, nil
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&model.OrganizationModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *organizationRepository) Name(id string) (string, error) {
	var org model.OrganizationModel
	if err := r.db.Select("name").Where("id = ?", id).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", entity.ErrNotFound
		}
		return "", err
	}
	return org.Name, nil
}

func (r *organizationRepository) Sector(id string) (string, error) {
	var org model.OrganizationModel
	if err := r.db.Select("sector").Where("id = ?", id).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", entity.ErrNotFound
		}
		return "", err
	}
	return org.Sector, nil
}

type actorLookup interface {
	Exists(id string) (bool, error)
	Name(id string) (string, error)
}

// ActorDirectory resolves polymorphic actor refs through an explicit
// capability map keyed by kind. Unknown kinds resolve to not-found; nothing
// is ever inferred from record shape.
type ActorDirectory struct {
	lookups map[entity.ActorKind]actorLookup
}

func NewActorDirectory(individuals IndividualRepository, organizations OrganizationRepository) *ActorDirectory {
	return &ActorDirectory{
		lookups: map[entity.ActorKind]actorLookup{
			entity.ActorIndividual:   individuals,
			entity.ActorOrganization: organizations,
		},
	}
}

func (d *ActorDirectory) Exists(ref entity.ActorRef) (bool, error) {
	lookup, ok := d.lookups[ref.Kind]
	if !ok {
		return false, nil
	}
	return lookup.Exists(ref.ID)
}

func (d *ActorDirectory) Name(ref entity.ActorRef) (string, error) {
	lookup, ok := d.lookups[ref.Kind]
	if !ok {
		return "", entity.ErrNotFound
	}
	return lookup.Name(ref.ID)
}
