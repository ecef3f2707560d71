package cli

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/lms-student-client/pkg/export"
)

// flags returns a flag set for the running command.
func (a *App) flags() *flag.FlagSet {
	cmd := a.current
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.Usage = func() {
		fmt.Fprintf(a.out, "Usage: %s %s %s\n", a.name, cmd.name, cmd.args)
		fs.PrintDefaults()
	}
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return err
	}
	return nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// idArg reads the positional id at index i.
func idArg(fs *flag.FlagSet, i int, what string) (int64, error) {
	if fs.NArg() <= i {
		fs.Usage()
		return 0, ErrHelp
	}
	raw := fs.Arg(i)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive number (got %q)", what, raw)
	}
	return id, nil
}

func exportFormat(raw string) (export.Format, bool, error) {
	if raw == "" {
		return "", false, nil
	}
	f, err := export.ParseFormat(raw)
	if err != nil {
		return "", false, err
	}
	return f, true, nil
}

// answerFlags collects repeated -answer QID:OID[,OID] values.
type answerFlags []answerFlag

type answerFlag struct {
	question int64
	options  []int64
}

func (f *answerFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, a := range *f {
		opts := make([]string, 0, len(a.options))
		for _, o := range a.options {
			opts = append(opts, strconv.FormatInt(o, 10))
		}
		parts = append(parts, fmt.Sprintf("%d:%s", a.question, strings.Join(opts, ",")))
	}
	return strings.Join(parts, " ")
}

func (f *answerFlags) Set(value string) error {
	q, rest, ok := strings.Cut(value, ":")
	if !ok {
		return fmt.Errorf("answer must look like QUESTION_ID:OPTION_ID[,OPTION_ID] (got %q)", value)
	}
	qid, err := strconv.ParseInt(strings.TrimSpace(q), 10, 64)
	if err != nil {
		return fmt.Errorf("bad question id %q", q)
	}
	answer := answerFlag{question: qid}
	for _, raw := range strings.Split(rest, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		oid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("bad option id %q", raw)
		}
		answer.options = append(answer.options, oid)
	}
	*f = append(*f, answer)
	return nil
}
