package persistent

import (
	"collabnet/internal/entity"
	"collabnet/internal/model"

	"gorm.io/gorm"
)

// MembershipRepository reads the group and organization membership graph.
// Membership management belongs to the groups service; the feed resolver only
// needs the actor's current position in that graph.
type MembershipRepository interface {
	GroupMembershipsOf(actor entity.ActorRef) (entity.GroupMemberships, error)
	OrganizationMembershipsOf(actor entity.ActorRef) ([]string, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) GroupMembershipsOf(actor entity.ActorRef) (entity.GroupMemberships, error) {
	var rows []model.GroupMemberModel
	err := r.db.Select("group_id", "role").
		Where("member_id = ? AND member_kind = ?", actor.ID, actor.Kind).
		Find(&rows).Error
	if err != nil {
		return entity.GroupMemberships{}, err
	}

	var memberships entity.GroupMemberships
	for _, row := range rows {
		// Admins are members too; admin-only tiers additionally need AdminOf.
		memberships.MemberOf = append(memberships.MemberOf, row.GroupID)
		if row.Role == model.GroupRoleAdmin {
			memberships.AdminOf = append(memberships.AdminOf, row.GroupID)
		}
	}
	return memberships, nil
}

func (r *membershipRepository) OrganizationMembershipsOf(actor entity.ActorRef) ([]string, error) {
	if actor.Kind != entity.ActorIndividual {
		return nil, nil
	}

	var rows []model.OrganizationMemberModel
	err := r.db.Select("organization_id").
		Where("individual_id = ?", actor.ID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	orgIDs := make([]string, len(rows))
	for i, row := range rows {
		orgIDs[i] = row.OrganizationID
	}
	return orgIDs, nil
}
