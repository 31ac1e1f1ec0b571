package domain

import (
	"sort"
	"strings"
	"time"
)

type Relationship string

const (
	RelationshipWife        Relationship = "wife"
	RelationshipHusband     Relationship = "husband"
	RelationshipChild       Relationship = "child"
	RelationshipParent      Relationship = "parent"
	RelationshipParentInLaw Relationship = "parent_in_law"
	RelationshipSibling     Relationship = "sibling"
	RelationshipOther       Relationship = "other"
)

// rank orders members the way a family card lists them: spouse first, then children.
func (r Relationship) rank() int {
	switch r {
	case RelationshipWife, RelationshipHusband:
		return 1
	case RelationshipChild:
		return 2
	case RelationshipParent:
		return 3
	case RelationshipParentInLaw:
		return 4
	case RelationshipSibling:
		return 5
	default:
		return 6
	}
}

func (r Relationship) IsValid() bool {
	switch r {
	case RelationshipWife, RelationshipHusband, RelationshipChild, RelationshipParent,
		RelationshipParentInLaw, RelationshipSibling, RelationshipOther:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// HouseholdMember is a person living in a resident's household. Members are not billed.
type HouseholdMember struct {
	ID           int32        `json:"id"`
	ResidentID   int32        `json:"resident_id"`
	FullName     string       `json:"full_name"`
	NationalID   string       `json:"national_id,omitempty"`
	Relationship Relationship `json:"relationship"`
	BirthPlace   string       `json:"birth_place,omitempty"`
	BirthDate    *time.Time   `json:"birth_date,omitempty"`
	Gender       Gender       `json:"gender"`
	Note         string       `json:"note,omitempty"`
	Active       bool         `json:"active"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (m *HouseholdMember) Validate() error {
	if strings.TrimSpace(m.FullName) == "" {
		return NewValidationError("member name is required")
	}
	if !m.Relationship.IsValid() {
		return NewValidationError("invalid relationship")
	}
	if !m.Gender.IsValid() {
		return NewValidationError("gender must be male or female")
	}
	return nil
}

// SortHouseholdMembers orders members by relationship, oldest first within one relationship.
// Members without a birth date go last in their group.
func SortHouseholdMembers(members []HouseholdMember) {
	sort.SliceStable(members, func(i, j int) bool {
		ri, rj := members[i].Relationship.rank(), members[j].Relationship.rank()
		if ri != rj {
			return ri < rj
		}
		bi, bj := members[i].BirthDate, members[j].BirthDate
		switch {
		case bi == nil:
			return false
		case bj == nil:
			return true
		default:
			return bi.Before(*bj)
		}
	})
}

// ResidentWithFamily is a resident together with the active members of the household.
type ResidentWithFamily struct {
	Resident
	Members     []HouseholdMember `json:"members"`
	MemberCount int               `json:"member_count"`
}
