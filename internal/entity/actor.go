package entity

type ActorKind string

const (
	ActorIndividual   ActorKind = "individual"
	ActorOrganization ActorKind = "organization"
)

func (k ActorKind) Valid() bool {
	return k == ActorIndividual || k == ActorOrganization
}

// ActorRef identifies a participant in the social graph without resolving it.
// Concrete individual/organization records are owned by the profile service;
// everything here carries only the (id, kind) pair.
type ActorRef struct {
	ID   string    `json:"id"`
	Kind ActorKind `json:"kind"`
}

func IndividualRef(id string) ActorRef {
	return ActorRef{ID: id, Kind: ActorIndividual}
}

func OrganizationRef(id string) ActorRef {
	return ActorRef{ID: id, Kind: ActorOrganization}
}

func (r ActorRef) Equal(other ActorRef) bool {
	return r.ID == other.ID && r.Kind == other.Kind
}

// GroupMemberships is the actor's position in the group graph, supplied by
// the membership store when resolving feed visibility.
type GroupMemberships struct {
	MemberOf []string `json:"member_of"`
	AdminOf  []string `json:"admin_of"`
}
