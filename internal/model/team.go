package model

const (
	FieldName        = "name"
	FieldFounded     = "founded"
	FieldLogo        = "logo"
	FieldDescription = "description"
)

// Team is a football team as rendered by the roster. ID is empty until the
// team has been saved once.
type Team struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	FoundedYear string `json:"founded_year"`
	LogoURL     string `json:"logo_url"`
	Description string `json:"description"`
}

// TeamForm is the draft bound to the create/edit form.
type TeamForm struct {
	Name        string `form:"name" json:"name" validate:"required"`
	FoundedYear string `form:"founded" json:"founded_year" validate:"required"`
	LogoURL     string `form:"logo" json:"logo_url"`
	Description string `form:"description" json:"description"`
}

func FormFromTeam(t Team) TeamForm {
	return TeamForm{
		Name:        t.Name,
		FoundedYear: t.FoundedYear,
		LogoURL:     t.LogoURL,
		Description: t.Description,
	}
}

// Team builds a team from the form fields with the given identifier.
func (f TeamForm) Team(id string) Team {
	return Team{
		ID:          id,
		Name:        f.Name,
		FoundedYear: f.FoundedYear,
		LogoURL:     f.LogoURL,
		Description: f.Description,
	}
}

// Set replaces one named field and reports whether the name is known.
func (f *TeamForm) Set(field, value string) bool {
	switch field {
	case FieldName:
		f.Name = value
	case FieldFounded:
		f.FoundedYear = value
	case FieldLogo:
		f.LogoURL = value
	case FieldDescription:
		f.Description = value
	default:
		return false
	}
	return true
}

// Fields returns the form as field name/value pairs in display order.
func (f TeamForm) Fields() [][2]string {
	return [][2]string{
		{FieldName, f.Name},
		{FieldFounded, f.FoundedYear},
		{FieldLogo, f.LogoURL},
		{FieldDescription, f.Description},
	}
}
