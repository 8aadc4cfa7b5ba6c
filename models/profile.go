package models

import "time"

// Profile is a user's dating record. ID equals the identity-service subject.
type Profile struct {
	ID          string    `dynamodbav:"id" json:"id"`
	IsActive    bool      `dynamodbav:"isActive" json:"isActive"`
	IsSearching bool      `dynamodbav:"isSearching" json:"isSearching"`
	Name        string    `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Bio         string    `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Age         int       `dynamodbav:"age,omitempty" json:"age,omitempty"`
	Gender      string    `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	Location    string    `dynamodbav:"location,omitempty" json:"location,omitempty"`
	Interests   []string  `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	Photos      []string  `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
	SearchPool  string    `dynamodbav:"searchPool,omitempty" json:"-"` // sparse GSI key, only set while searching
	CreatedAt   time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}

// PublicProfile is the subset of a Profile shown to the other party of a match.
type PublicProfile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Bio       string   `json:"bio"`
	Age       int      `json:"age"`
	Location  string   `json:"location"`
	Gender    string   `json:"gender"`
	Interests []string `json:"interests"`
}

// Public strips the profile down to the fields another user may see.
func (p Profile) Public() PublicProfile {
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	return PublicProfile{
		ID:        p.ID,
		Name:      p.Name,
		Bio:       p.Bio,
		Age:       p.Age,
		Location:  p.Location,
		Gender:    p.Gender,
		Interests: interests,
	}
}

// ProfileUpdate carries the owner-editable fields. Nil means "leave unchanged".
// ID and IsSearching are deliberately absent.
type ProfileUpdate struct {
	Name      *string   `json:"name,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Age       *int      `json:"age,omitempty"`
	Gender    *string   `json:"gender,omitempty"`
	Location  *string   `json:"location,omitempty"`
	Interests *[]string `json:"interests,omitempty"`
	Photos    *[]string `json:"photos,omitempty"`
	IsActive  *bool     `json:"isActive,omitempty"`
}

// Empty reports whether the update touches nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Bio == nil && u.Age == nil && u.Gender == nil &&
		u.Location == nil && u.Interests == nil && u.Photos == nil && u.IsActive == nil
}

// Apply copies the set fields onto p.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.Interests != nil {
		p.Interests = append([]string(nil), (*u.Interests)...)
	}
	if u.Photos != nil {
		p.Photos = append([]string(nil), (*u.Photos)...)
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
}
