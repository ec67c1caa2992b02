package model

// SystemSetting is a feature flag or tunable stored as a JSON object.
type SystemSetting struct {
	BaseModel
	Key         string `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	Value       JSONB  `gorm:"type:jsonb;not null" json:"value"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

// TranslationKey holds one UI string in every supported language.
type TranslationKey struct {
	BaseModel
	Key string `gorm:"type:varchar(150);uniqueIndex;not null" json:"key"`
	EN  string `gorm:"column:en;type:text;not null" json:"en"`
	HI  string `gorm:"column:hi;type:text" json:"hi"`
	TA  string `gorm:"column:ta;type:text" json:"ta"`
	KN  string `gorm:"column:kn;type:text" json:"kn"`
	AR  string `gorm:"column:ar;type:text" json:"ar"`
}

// Text returns the string for lang, falling back to English.
func (t *TranslationKey) Text(lang string) string {
	var s string
	switch lang {
	case "hi":
		s = t.HI
	case "ta":
		s = t.TA
	case "kn":
		s = t.KN
	case "ar":
		s = t.AR
	}
	if s == "" {
		return t.EN
	}
	return s
}
