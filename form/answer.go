package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type AnswerKind string

const (
	AnswerKindSingle   AnswerKind = "single"
	AnswerKindItemized AnswerKind = "itemized"
)

// Answer is either a SingleAnswer or an ItemizedAnswer.
type Answer interface {
	Kind() AnswerKind
	PlainText() string
	isAnswer()
}

// SingleAnswer covers free text and choice answers. Choice answers also carry
// the option id.
type SingleAnswer struct {
	Text *string  `json:"text,omitempty"`
	ID   *FlexInt `json:"id,omitempty"`
}

func (SingleAnswer) Kind() AnswerKind { return AnswerKindSingle }

func (a SingleAnswer) PlainText() string {
	if a.Text == nil {
		return ""
	}
	return *a.Text
}

func (SingleAnswer) isAnswer() {}

type SaleItem struct {
	ID           *FlexInt     `json:"id" validate:"required"`
	Commodity    string       `json:"commodity" validate:"required"`
	Quantity     *FlexInt     `json:"quantity" validate:"required"`
	UnitPrice    *FlexDecimal `json:"unit_price" validate:"required"`
	SubTotal     *FlexString  `json:"sub_total" validate:"required"`
	CurrencyCode *string      `json:"currency_code" validate:"required"`
	CurrencySign *string      `json:"currency_sign" validate:"required"`
}

func (i SaleItem) PlainText() string {
	sign := deref(i.CurrencySign)
	return fmt.Sprintf(
		"%s x %d (%s%s) = %s%s",
		i.Commodity,
		deref(i.Quantity).Int64(),
		sign,
		deref(i.UnitPrice).String(),
		sign,
		deref(i.SubTotal).String(),
	)
}

// ItemizedAnswer is the line item list of a SALE question.
type ItemizedAnswer []SaleItem

func (ItemizedAnswer) Kind() AnswerKind { return AnswerKindItemized }

func (a ItemizedAnswer) PlainText() string {
	parts := make([]string, 0, len(a))
	for _, item := range a {
		parts = append(parts, item.PlainText())
	}
	return strings.Join(parts, " | ")
}

func (ItemizedAnswer) isAnswer() {}

func decodeAnswer(raw json.RawMessage) (Answer, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("form: answer is required")
	}
	switch raw[0] {
	case '{':
		var single SingleAnswer
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("form: decode single answer: %w", err)
		}
		return single, nil
	case '[':
		var items ItemizedAnswer
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("form: decode itemized answer: %w", err)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("form: answer must be an object or a list, got %s", raw)
	}
}

type QuestionSubmit struct {
	QuestionID FlexString `json:"question_id" validate:"required"`
	Answer     Answer     `json:"-"`
}

func (s *QuestionSubmit) UnmarshalJSON(data []byte) error {
	var aux struct {
		QuestionID FlexString      `json:"question_id"`
		Answer     json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	answer, err := decodeAnswer(aux.Answer)
	if err != nil {
		return fmt.Errorf("%w (question_id %q)", err, aux.QuestionID)
	}
	s.QuestionID = aux.QuestionID
	s.Answer = answer
	return nil
}

func (s QuestionSubmit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		QuestionID FlexString `json:"question_id"`
		Answer     Answer     `json:"answer"`
	}{
		QuestionID: s.QuestionID,
		Answer:     s.Answer,
	})
}
