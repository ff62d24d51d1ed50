package browser

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/jwalitptl/rx-admin/internal/filter"
	"github.com/jwalitptl/rx-admin/internal/model"
)

// CommandKind identifies a REPL command
type CommandKind string

const (
	CmdPatient    CommandKind = "patient"
	CmdMedication CommandKind = "medication"
	CmdStatus     CommandKind = "status"
	CmdOperator   CommandKind = "op"
	CmdDate       CommandKind = "date"
	CmdBound      CommandKind = "bound"
	CmdReset      CommandKind = "reset"
	CmdFilters    CommandKind = "filters"
	CmdPage       CommandKind = "page"
	CmdNext       CommandKind = "next"
	CmdPrev       CommandKind = "prev"
	CmdSize       CommandKind = "size"
	CmdShow       CommandKind = "show"
	CmdNew        CommandKind = "new"
	CmdEdit       CommandKind = "edit"
	CmdDelete     CommandKind = "delete"
	CmdConfirm    CommandKind = "confirm"
	CmdCancel     CommandKind = "cancel"
	CmdHelp       CommandKind = "help"
	CmdExit       CommandKind = "exit"
)

// clearToken clears a filter value
const clearToken = "-"

// Command is one parsed REPL line
type Command struct {
	Kind     CommandKind
	Group    filter.Group
	Bound    filter.Bound
	Operator filter.Operator
	// Value is the filter value; "" clears the filter
	Value  string
	ID     int64
	N      int
	Fields map[string]string
}

var groupWords = map[string]filter.Group{
	"start": filter.Start,
	"end":   filter.End,
}

var boundWords = map[string]filter.Bound{
	"from": filter.From,
	"to":   filter.To,
}

// formFields are the keys accepted by new and edit
var formFields = map[string]string{
	"patient":    "patient",
	"medication": "medication",
	"start":      "start_date",
	"start_date": "start_date",
	"end":        "end_date",
	"end_date":   "end_date",
	"status":     "status",
	"comment":    "comment",
}

// ParseCommand reads one REPL line. Blank lines parse to a zero Command.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, nil
	}
	word := strings.ToLower(fields[0])
	args := fields[1:]

	switch word {
	case "patient", "medication":
		id, err := optionalID(word, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CommandKind(word), ID: id}, nil
	case "status":
		v, err := optionalValue(word, args)
		if err != nil {
			return Command{}, err
		}
		if v != "" && !model.PrescriptionStatus(v).Valid() {
			return Command{}, errors.Errorf("unknown status %q, expected valide, en_attente or suppr", v)
		}
		return Command{Kind: CmdStatus, Value: v}, nil
	case "reset", "filters", "next", "prev", "show", "help", "exit", "confirm", "cancel":
		if len(args) > 0 {
			return Command{}, errors.Errorf("%s takes no arguments", word)
		}
		return Command{Kind: CommandKind(word)}, nil
	case "quit":
		return Command{Kind: CmdExit}, nil
	case "page", "size":
		if len(args) != 1 {
			return Command{}, errors.Errorf("usage: %s <n>", word)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return Command{}, errors.Errorf("%s must be a positive integer", word)
		}
		return Command{Kind: CommandKind(word), N: n}, nil
	case "new":
		kv, err := parseAssignments(args)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdNew, Fields: kv}, nil
	case "edit":
		if len(args) < 1 {
			return Command{}, errors.New("usage: edit <id> key=value...")
		}
		id, err := parseID(args[0])
		if err != nil {
			return Command{}, err
		}
		kv, err := parseAssignments(args[1:])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdEdit, ID: id, Fields: kv}, nil
	case "delete":
		if len(args) != 1 {
			return Command{}, errors.New("usage: delete <id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdDelete, ID: id}, nil
	}

	return parseDateCommand(word, args)
}

// parseDateCommand handles start, end, start-op, end-op and the
// start-from style interval bounds.
func parseDateCommand(word string, args []string) (Command, error) {
	prefix, suffix, _ := strings.Cut(word, "-")
	g, ok := groupWords[prefix]
	if !ok {
		return Command{}, errors.Errorf("unknown command %q, type help", word)
	}

	switch {
	case suffix == "":
		v, err := optionalDate(word, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdDate, Group: g, Value: v}, nil
	case suffix == "op":
		if len(args) != 1 {
			return Command{}, errors.Errorf("usage: %s <operator>", word)
		}
		op, err := filter.ParseOperator(args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdOperator, Group: g, Operator: op}, nil
	}

	b, ok := boundWords[suffix]
	if !ok {
		return Command{}, errors.Errorf("unknown command %q, type help", word)
	}
	v, err := optionalDate(word, args)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CmdBound, Group: g, Bound: b, Value: v}, nil
}

func optionalValue(word string, args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		if args[0] == clearToken {
			return "", nil
		}
		return args[0], nil
	}
	return "", errors.Errorf("usage: %s [value|-]", word)
}

func optionalID(word string, args []string) (int64, error) {
	v, err := optionalValue(word, args)
	if err != nil || v == "" {
		return 0, err
	}
	return parseID(v)
}

func optionalDate(word string, args []string) (string, error) {
	v, err := optionalValue(word, args)
	if err != nil || v == "" {
		return "", err
	}
	if _, err := model.ParseDate(v); err != nil {
		return "", errors.Errorf("%s: enter a valid date (YYYY-MM-DD)", word)
	}
	return v, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseAssignments reads key=value words. Values may not contain spaces
// unless the comment comes last, in which case the rest of the line is
// kept.
func parseAssignments(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for i := 0; i < len(args); i++ {
		k, v, ok := strings.Cut(args[i], "=")
		if !ok {
			return nil, errors.Errorf("expected key=value, got %q", args[i])
		}
		field, known := formFields[strings.ToLower(k)]
		if !known {
			return nil, errors.Errorf("unknown field %q", k)
		}
		if field == "comment" {
			v = strings.Join(append([]string{v}, args[i+1:]...), " ")
			i = len(args)
		}
		out[field] = v
	}
	return out, nil
}

// toInput merges assignments over base.
func toInput(base model.PrescriptionInput, fields map[string]string) (model.PrescriptionInput, error) {
	in := base
	for k, v := range fields {
		switch k {
		case "patient", "medication":
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return in, errors.Errorf("%s: enter a number", k)
			}
			if k == "patient" {
				in.Patient = id
			} else {
				in.Medication = id
			}
		case "start_date":
			in.StartDate = v
		case "end_date":
			in.EndDate = v
		case "status":
			in.Status = model.PrescriptionStatus(v)
		case "comment":
			in.Comment = v
		}
	}
	return in, nil
}

// inputFrom turns a stored prescription back into form values
func inputFrom(p model.Prescription) model.PrescriptionInput {
	return model.PrescriptionInput{
		Patient:    p.PatientID,
		Medication: p.MedicationID,
		StartDate:  p.StartDate.String(),
		EndDate:    p.EndDate.String(),
		Status:     p.Status,
		Comment:    p.Comment,
	}
}
