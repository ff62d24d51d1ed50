package browser

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/jwalitptl/rx-admin/internal/filter"
	"github.com/jwalitptl/rx-admin/internal/format"
	"github.com/jwalitptl/rx-admin/internal/model"
)

// ErrIgnored is returned for filter edits that do not apply to the
// current operator, such as an interval bound outside interval mode.
var ErrIgnored = errors.New("edit ignored for the current operator")

const helpText = `filters (changes apply after a short pause):
  patient <id|->               medication <id|->
  status <valide|en_attente|suppr|->
  start-op <op>, end-op <op>    op: gte lte gt lt equals interval
  start <date|->, end <date|->
  start-from, start-to, end-from, end-to <date|->   (interval operator)
  filters                       show the active operators and values
  reset
pages:
  page <n>, next, prev, size <10|20|50|100>, show
prescriptions:
  new patient=<id> medication=<id> start=<date> end=<date> [status=..] [comment=..]
  edit <id> key=value...
  delete <id>, then confirm or cancel
  help, exit`

// Shell runs REPL commands against a Session and renders the results.
type Shell struct {
	session *Session
	out     io.Writer
	writer  Writer
}

func NewShell(session *Session, out io.Writer, writer Writer) *Shell {
	return &Shell{session: session, out: out, writer: writer}
}

// Exec runs one line. done is true once the user asked to leave.
func (sh *Shell) Exec(ctx context.Context, line string) (done bool, err error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return false, err
	}
	return sh.Run(ctx, cmd)
}

// Run executes a parsed command
func (sh *Shell) Run(ctx context.Context, cmd Command) (bool, error) {
	r := sh.session.Filters()

	switch cmd.Kind {
	case "":
		return false, nil
	case CmdExit:
		return true, nil
	case CmdHelp:
		_, err := fmt.Fprintln(sh.out, helpText)
		return false, err
	case CmdPatient:
		return false, applied(r.SetPatient(cmd.ID))
	case CmdMedication:
		return false, applied(r.SetMedication(cmd.ID))
	case CmdStatus:
		return false, applied(r.SetStatus(cmd.Value))
	case CmdOperator:
		return false, applied(r.SetOperator(cmd.Group, cmd.Operator))
	case CmdDate:
		if !r.SetDate(cmd.Group, cmd.Value) {
			return false, errors.Wrapf(ErrIgnored, "use %s-from and %s-to", cmd.Group, cmd.Group)
		}
		return false, nil
	case CmdBound:
		if !r.SetIntervalBound(cmd.Group, cmd.Bound, cmd.Value) {
			return false, errors.Wrapf(ErrIgnored, "set %s-op interval first", cmd.Group)
		}
		return false, nil
	case CmdReset:
		r.Reset()
		return false, nil
	case CmdFilters:
		_, err := fmt.Fprintln(sh.out, strings.Join(format.Filters(r.State()), "\n"))
		return false, err
	case CmdPage:
		return false, sh.show(sh.session.SetPage(ctx, cmd.N))
	case CmdNext:
		return false, sh.show(sh.session.NextPage(ctx))
	case CmdPrev:
		return false, sh.show(sh.session.PrevPage(ctx))
	case CmdSize:
		return false, sh.show(sh.session.SetPageSize(ctx, cmd.N))
	case CmdShow:
		return false, sh.show(sh.session.Refresh(ctx))
	case CmdNew:
		return false, sh.submit(ctx, nil, cmd.Fields)
	case CmdEdit:
		p, ok := sh.findOnPage(cmd.ID)
		if !ok {
			return false, errors.Errorf("prescription %d is not on the current page", cmd.ID)
		}
		return false, sh.submit(ctx, &p, cmd.Fields)
	case CmdDelete:
		sh.session.RequestDelete(cmd.ID)
		_, err := fmt.Fprintf(sh.out, "delete prescription %d? type confirm or cancel\n", cmd.ID)
		return false, err
	case CmdConfirm:
		id := sh.session.PendingDelete()
		if err := sh.session.ConfirmDelete(ctx); err != nil {
			return false, err
		}
		_, err := fmt.Fprintf(sh.out, "deleted prescription %d\n", id)
		return false, err
	case CmdCancel:
		sh.session.CancelDelete()
		return false, nil
	}
	return false, errors.Errorf("unhandled command %q", cmd.Kind)
}

func (sh *Shell) submit(ctx context.Context, editing *model.Prescription, fields map[string]string) error {
	base := model.PrescriptionInput{}
	if editing != nil {
		base = inputFrom(*editing)
		sh.session.Edit(*editing)
	}
	in, err := toInput(base, fields)
	if err != nil {
		sh.session.CancelForm()
		return err
	}
	saved, err := sh.session.SubmitPrescription(ctx, in)
	if err != nil {
		sh.session.CancelForm()
		return err
	}
	verb := "created"
	if editing != nil {
		verb = "updated"
	}
	_, err = fmt.Fprintf(sh.out, "%s prescription %d\n", verb, saved.ID)
	return err
}

func (sh *Shell) findOnPage(id int64) (model.Prescription, bool) {
	for _, p := range sh.session.View().Results {
		if p.ID == id {
			return p, true
		}
	}
	return model.Prescription{}, false
}

func (sh *Shell) show(v View, err error) error {
	if err != nil {
		return err
	}
	return sh.writer.WriteView(sh.out, v)
}

// Print renders v, for listeners reacting to settled filter edits
func (sh *Shell) Print(v View) {
	if v.Err != nil {
		fmt.Fprintln(sh.out, "error:", v.Err)
		return
	}
	if err := sh.writer.WriteView(sh.out, v); err != nil {
		fmt.Fprintln(sh.out, "error:", err)
	}
}

func applied(ok bool) error {
	if !ok {
		return ErrIgnored
	}
	return nil
}

// Words lists the command names, for completion
func Words() []string {
	words := []string{
		"patient", "medication", "status", "filters", "reset", "page", "next", "prev", "size", "show",
		"new", "edit", "delete", "confirm", "cancel", "help", "exit",
	}
	for _, g := range []string{"start", "end"} {
		words = append(words, g, g+"-op", g+"-from", g+"-to")
	}
	return words
}

// Prompt renders the prompt with the number of active filters
func Prompt(s filter.Set) string {
	n := 0
	for k := range s {
		if k != filter.KeyPage && k != filter.KeyPageSize {
			n++
		}
	}
	if n == 0 {
		return "rx> "
	}
	return fmt.Sprintf("rx[%s]> ", strings.Repeat("*", n))
}
