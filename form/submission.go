package form

import (
	"strings"

	"github.com/google/uuid"
)

const QuestionTypeName = "CT_NAME"

// SysInfo is the platform metadata of a submission. Pointer fields here and
// in the other payload types must be present but may hold a zero value.
type SysInfo struct {
	ClientID        *FlexInt `json:"CLIENT_ID" validate:"required"`
	FormID          *FlexInt `json:"FORM_ID" validate:"required"`
	FormName        string   `json:"FORM_NAME" validate:"required"`
	SubmitID        *FlexInt `json:"SUBMIT_ID" validate:"required"`
	SubmitNo        *FlexInt `json:"SUBMIT_NO" validate:"required"`
	SubmitTimeLocal *string  `json:"SUBMIT_TIME_LOCAL" validate:"required"`
	IPLocation      *string  `json:"IP_LOCATION" validate:"required"`
}

type RandomCode struct {
	Code  *string `json:"code"`
	Title *string `json:"title"`
}

type Ticket struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Number      *string `json:"number"`
	URLQRCode   *string `json:"url_qrcode"`
}

type Common struct {
	SYS          SysInfo     `json:"SYS"`
	RandomCode   *RandomCode `json:"random_code,omitempty"`
	Ticket       *Ticket     `json:"ticket,omitempty"`
	WechatOpenID *string     `json:"wechat_open_id,omitempty"`
}

type Cashier struct {
	MikeOrderNumber *string     `json:"mike_order_number" validate:"required"`
	CurrencyCode    *string     `json:"currency_code" validate:"required"`
	CurrencySign    *string     `json:"currency_sign" validate:"required"`
	Total           *FlexString `json:"total" validate:"required"`
}

type Question struct {
	ID   FlexString `json:"id" validate:"required"`
	Type string     `json:"type" validate:"required"`
	Text *string    `json:"text" validate:"required"`
}

// Label is the question text, which doubles as the directory column name.
func (q Question) Label() string {
	return deref(q.Text)
}

type Submission struct {
	Common    Common           `json:"common"`
	Questions []Question       `json:"question" validate:"required,dive"`
	Submits   []QuestionSubmit `json:"submit" validate:"required,dive"`
	Cashier   *Cashier         `json:"cashier,omitempty"`
}

func (s Submission) FormTitle() string {
	return s.Common.SYS.FormName
}

func (s Submission) QuestionTexts() []string {
	texts := make([]string, 0, len(s.Questions))
	for _, question := range s.Questions {
		texts = append(texts, question.Label())
	}
	return texts
}

func (s Submission) questionIndex() map[string]Question {
	index := make(map[string]Question, len(s.Questions))
	for _, question := range s.Questions {
		index[question.ID.String()] = question
	}
	return index
}

// PropertyMapping maps question text to rendered answer text. A later answer
// to a question with the same text overwrites the earlier one.
func (s Submission) PropertyMapping() (map[string]string, error) {
	index := s.questionIndex()
	mapping := make(map[string]string, len(s.Submits))
	for _, submit := range s.Submits {
		question, ok := index[submit.QuestionID.String()]
		if !ok {
			return nil, unknownQuestionError(submit.QuestionID.String())
		}
		text := ""
		if submit.Answer != nil {
			text = submit.Answer.PlainText()
		}
		mapping[question.Label()] = text
	}
	return mapping, nil
}

// PageTitle returns the answer text of the first CT_NAME question, paired by
// question id, whose text is not blank. Blank or missing name answers are
// skipped; without a usable one it falls back to a random UUID.
func (s Submission) PageTitle() string {
	return s.pageTitle(uuid.NewString)
}

func (s Submission) pageTitle(fallback func() string) string {
	answers := make(map[string]Answer, len(s.Submits))
	for _, submit := range s.Submits {
		id := submit.QuestionID.String()
		if _, seen := answers[id]; !seen {
			answers[id] = submit.Answer
		}
	}
	for _, question := range s.Questions {
		if question.Type != QuestionTypeName {
			continue
		}
		single, ok := answers[question.ID.String()].(SingleAnswer)
		if !ok {
			continue
		}
		if title := strings.TrimSpace(single.PlainText()); title != "" {
			return single.PlainText()
		}
	}
	return fallback()
}
