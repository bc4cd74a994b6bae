package model

import "time"

// Recipe represents a user-authored recipe.
type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;index"`
	Category    string    `json:"category" gorm:"size:100;not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	Ingredients []string  `json:"ingredients" gorm:"serializer:json;type:text;not null"`
	Directions  []string  `json:"directions" gorm:"serializer:json;type:text;not null"`
	Date        time.Time `json:"date" gorm:"not null;index"`

	// AuthorID is fixed at creation. Nil only for rows written without ownership.
	AuthorID *uint `json:"author_id,omitempty" gorm:"index"`

	// Relations
	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
}

// AuthorEmail returns the email of the preloaded author, or "" when unknown.
func (r *Recipe) AuthorEmail() string {
	if r.Author == nil {
		return ""
	}
	return r.Author.Email
}

// IsOwnedBy reports whether the recipe's author has the given email.
func (r *Recipe) IsOwnedBy(email string) bool {
	return r.Author != nil && r.Author.Email == email
}

// RecipeDraft carries the caller-editable fields of a recipe.
type RecipeDraft struct {
	Name        string
	Category    string
	Description string
	Ingredients []string
	Directions  []string
}

// Apply overwrites the editable fields of r with the draft and stamps the date.
// ID and author are left untouched.
func (d RecipeDraft) Apply(r *Recipe, now time.Time) {
	r.Name = d.Name
	r.Category = d.Category
	r.Description = d.Description
	r.Ingredients = append([]string(nil), d.Ingredients...)
	r.Directions = append([]string(nil), d.Directions...)
	r.Date = now
}
