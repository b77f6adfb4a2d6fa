package queue

const (
	TypeDraftGenerate = "draft:generate"
)

type DraftGeneratePayload struct {
	DisclosureID string `json:"disclosure_id"`
}
