package persistent

import (
	"encoding/json"

	"collabnet/internal/entity"
	"collabnet/internal/model"
)

func ToFollowLinkEntity(m *model.FollowLinkModel) *entity.FollowLink {
	if m == nil {
		return nil
	}

	return &entity.FollowLink{
		ID:              m.ID,
		Follower:        entity.ActorRef{ID: m.FollowerID, Kind: entity.ActorKind(m.FollowerKind)},
		Followee:        entity.ActorRef{ID: m.FolloweeID, Kind: entity.ActorKind(m.FolloweeKind)},
		NotifyOnPost:    m.NotifyOnPost,
		NotifyByEmail:   m.NotifyByEmail,
		LastVisit:       m.LastVisit,
		LastInteraction: m.LastInteraction,
		LikeCount:       m.LikeCount,
		CommentCount:    m.CommentCount,
		ShareCount:      m.ShareCount,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ToFollowLinkModel(e *entity.FollowLink) *model.FollowLinkModel {
	if e == nil {
		return nil
	}

	return &model.FollowLinkModel{
		ID:              e.ID,
		FollowerID:      e.Follower.ID,
		FollowerKind:    string(e.Follower.Kind),
		FolloweeID:      e.Followee.ID,
		FolloweeKind:    string(e.Followee.Kind),
		NotifyOnPost:    e.NotifyOnPost,
		NotifyByEmail:   e.NotifyByEmail,
		LastVisit:       e.LastVisit,
		LastInteraction: e.LastInteraction,
		LikeCount:       e.LikeCount,
		CommentCount:    e.CommentCount,
		ShareCount:      e.ShareCount,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func ToInvitationEntity(m *model.FollowInvitationModel) *entity.FollowInvitation {
	if m == nil {
		return nil
	}

	return &entity.FollowInvitation{
		ID:          m.ID,
		Sender:      entity.ActorRef{ID: m.SenderID, Kind: entity.ActorKind(m.SenderKind)},
		Receiver:    entity.ActorRef{ID: m.ReceiverID, Kind: entity.ActorKind(m.ReceiverKind)},
		Status:      entity.ReviewStatus(m.Status),
		Message:     m.Message,
		ExpiresAt:   m.ExpiresAt,
		RespondedAt: m.RespondedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToInvitationModel(e *entity.FollowInvitation) *model.FollowInvitationModel {
	if e == nil {
		return nil
	}

	return &model.FollowInvitationModel{
		ID:           e.ID,
		SenderID:     e.Sender.ID,
		SenderKind:   string(e.Sender.Kind),
		ReceiverID:   e.Receiver.ID,
		ReceiverKind: string(e.Receiver.Kind),
		Status:       string(e.Status),
		Message:      e.Message,
		ExpiresAt:    e.ExpiresAt,
		RespondedAt:  e.RespondedAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToSubscriptionRequestEntity(m *model.SubscriptionRequestModel) *entity.SubscriptionRequest {
	if m == nil {
		return nil
	}

	return &entity.SubscriptionRequest{
		ID:                     m.ID,
		IndividualID:           m.IndividualID,
		OrganizationID:         m.OrganizationID,
		Status:                 entity.ReviewStatus(m.Status),
		PlanRequested:          entity.SubscriptionPlan(m.PlanRequested),
		Sector:                 m.Sector,
		Role:                   m.Role,
		PartnershipTitle:       m.PartnershipTitle,
		PartnershipDescription: m.PartnershipDescription,
		Message:                m.Message,
		ExpiresAt:              m.ExpiresAt,
		RespondedAt:            m.RespondedAt,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

func ToSubscriptionRequestModel(e *entity.SubscriptionRequest) *model.SubscriptionRequestModel {
	if e == nil {
		return nil
	}

	return &model.SubscriptionRequestModel{
		ID:                     e.ID,
		IndividualID:           e.IndividualID,
		OrganizationID:         e.OrganizationID,
		Status:                 string(e.Status),
		PlanRequested:          string(e.PlanRequested),
		Sector:                 e.Sector,
		Role:                   e.Role,
		PartnershipTitle:       e.PartnershipTitle,
		PartnershipDescription: e.PartnershipDescription,
		Message:                e.Message,
		ExpiresAt:              e.ExpiresAt,
		RespondedAt:            e.RespondedAt,
		CreatedAt:              e.CreatedAt,
		UpdatedAt:              e.UpdatedAt,
	}
}

func ToSubscriptionEntity(m *model.SubscriptionModel) *entity.Subscription {
	if m == nil {
		return nil
	}

	var permissions []string
	if m.Permissions != "" {
		_ = json.Unmarshal([]byte(m.Permissions), &permissions)
	}

	return &entity.Subscription{
		ID:                m.ID,
		IndividualID:      m.IndividualID,
		OrganizationID:    m.OrganizationID,
		Status:            entity.SubscriptionStatus(m.Status),
		Plan:              entity.SubscriptionPlan(m.Plan),
		Sector:            m.Sector,
		Role:              m.Role,
		Balance:           m.Balance,
		Permissions:       permissions,
		PartnershipPageID: m.PartnershipPageID,
		PeriodStart:       m.PeriodStart,
		PeriodEnd:         m.PeriodEnd,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func ToSubscriptionModel(e *entity.Subscription) *model.SubscriptionModel {
	if e == nil {
		return nil
	}

	permissions := ""
	if len(e.Permissions) > 0 {
		raw, _ := json.Marshal(e.Permissions)
		permissions = string(raw)
	}

	return &model.SubscriptionModel{
		ID:                e.ID,
		IndividualID:      e.IndividualID,
		OrganizationID:    e.OrganizationID,
		Status:            string(e.Status),
		Plan:              string(e.Plan),
		Sector:            e.Sector,
		Role:              e.Role,
		Balance:           e.Balance,
		Permissions:       permissions,
		PartnershipPageID: e.PartnershipPageID,
		PeriodStart:       e.PeriodStart,
		PeriodEnd:         e.PeriodEnd,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func ToPartnershipPageEntity(m *model.PartnershipPageModel) *entity.PartnershipPage {
	if m == nil {
		return nil
	}

	return &entity.PartnershipPage{
		ID:               m.ID,
		SubscriptionID:   m.SubscriptionID,
		Title:            m.Title,
		Description:      m.Description,
		Sector:           m.Sector,
		Visibility:       m.Visibility,
		TransactionCount: m.TransactionCount,
		TotalAmount:      m.TotalAmount,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func ToPartnershipPageModel(e *entity.PartnershipPage) *model.PartnershipPageModel {
	if e == nil {
		return nil
	}

	return &model.PartnershipPageModel{
		ID:               e.ID,
		SubscriptionID:   e.SubscriptionID,
		Title:            e.Title,
		Description:      e.Description,
		Sector:           e.Sector,
		Visibility:       e.Visibility,
		TransactionCount: e.TransactionCount,
		TotalAmount:      e.TotalAmount,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	post := &entity.Post{
		ID:             m.ID,
		Author:         entity.ActorRef{ID: m.AuthorID, Kind: entity.ActorKind(m.AuthorKind)},
		GroupID:        m.GroupID,
		OrganizationID: m.OrganizationID,
		Tier:           entity.Tier(m.Tier),
		Title:          m.Title,
		Body:           m.Body,
		MediaURL:       m.MediaURL,
		Pinned:         m.Pinned,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}

	if len(m.Images) > 0 {
		post.Images = make([]entity.PostImage, len(m.Images))
		for i, img := range m.Images {
			post.Images[i] = entity.PostImage{
				ID:        img.ID,
				PostID:    img.PostID,
				ImageURL:  img.ImageURL,
				Position:  img.Position,
				CreatedAt: img.CreatedAt,
			}
		}
	}

	return post
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	post := &model.PostModel{
		ID:             e.ID,
		AuthorID:       e.Author.ID,
		AuthorKind:     string(e.Author.Kind),
		GroupID:        e.GroupID,
		OrganizationID: e.OrganizationID,
		Tier:           string(e.Tier),
		Title:          e.Title,
		Body:           e.Body,
		MediaURL:       e.MediaURL,
		Pinned:         e.Pinned,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}

	if len(e.Images) > 0 {
		post.Images = make([]model.PostImageModel, len(e.Images))
		for i, img := range e.Images {
			post.Images[i] = model.PostImageModel{
				ID:        img.ID,
				PostID:    img.PostID,
				ImageURL:  img.ImageURL,
				Position:  img.Position,
				CreatedAt: img.CreatedAt,
			}
		}
	}

	return post
}
