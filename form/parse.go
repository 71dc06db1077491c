package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-formsync/core"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Parse decodes and validates a raw submission payload.
func Parse(payload string) (Submission, error) {
	return ParseBytes([]byte(payload))
}

func ParseBytes(payload []byte) (Submission, error) {
	var submission Submission
	if err := json.Unmarshal(payload, &submission); err != nil {
		return Submission{}, parseError(err, "form: decode submission")
	}
	if err := submission.Validate(); err != nil {
		return Submission{}, err
	}
	return submission, nil
}

// Validate checks required fields (including every sale line item), question
// id uniqueness and that every submitted answer references a known question.
func (s Submission) Validate() error {
	if err := validateStruct("", s); err != nil {
		return err
	}
	for i, submit := range s.Submits {
		items, ok := submit.Answer.(ItemizedAnswer)
		if !ok {
			continue
		}
		for j, item := range items {
			if err := validateStruct(fmt.Sprintf("submit[%d].answer[%d]", i, j), item); err != nil {
				return err
			}
		}
	}

	seen := make(map[string]struct{}, len(s.Questions))
	for _, question := range s.Questions {
		id := question.ID.String()
		if _, dup := seen[id]; dup {
			return core.NewError(
				fmt.Sprintf("form: duplicate question id %q", id),
				goerrors.CategoryValidation,
				core.ErrorParse,
				map[string]any{"question_id": id},
			)
		}
		seen[id] = struct{}{}
	}
	for _, submit := range s.Submits {
		if _, ok := seen[submit.QuestionID.String()]; !ok {
			return unknownQuestionError(submit.QuestionID.String())
		}
	}
	return nil
}

// validateStruct runs the struct rules. A non-empty prefix replaces the type
// name in reported field paths.
func validateStruct(prefix string, value any) error {
	err := structValidator().Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return validationError(prefix, fieldErrs)
	}
	return parseError(err, "form: validate submission")
}

func parseError(source error, message string) error {
	return core.WrapError(source, goerrors.CategoryValidation, message, core.ErrorParse, nil)
}

func unknownQuestionError(questionID string) error {
	return core.NewError(
		fmt.Sprintf("form: submit references unknown question id %q", questionID),
		goerrors.CategoryValidation,
		core.ErrorParse,
		map[string]any{"question_id": questionID},
	)
}

func validationError(prefix string, fieldErrs validator.ValidationErrors) error {
	fields := make([]goerrors.FieldError, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		field := fieldErr.Namespace()
		if prefix != "" {
			_, rest, _ := strings.Cut(field, ".")
			field = prefix + "." + rest
		}
		fields = append(fields, goerrors.FieldError{
			Field:   field,
			Message: fmt.Sprintf("failed on the %q rule", fieldErr.Tag()),
		})
	}
	return goerrors.NewValidation("form: submission failed validation", fields...).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.ErrorParse)
}
