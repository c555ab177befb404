// AngelaMos | 2026
// dto.go

package contact

type UpdateSettingsRequest struct {
	WhatsApp  *string `json:"whatsapp,omitempty"  validate:"omitempty,max=100"`
	Instagram *string `json:"instagram,omitempty" validate:"omitempty,max=100"`
	Telegram  *string `json:"telegram,omitempty"  validate:"omitempty,max=100"`
}

func (r UpdateSettingsRequest) ToPatch() Patch {
	return Patch{
		WhatsApp:  r.WhatsApp,
		Instagram: r.Instagram,
		Telegram:  r.Telegram,
	}
}
