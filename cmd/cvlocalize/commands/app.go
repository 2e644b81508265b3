package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/version"
)

// exitRequest carries an exit code requested by kong (--help, --version) out
// of the parser without terminating the process.
type exitRequest int

// Main parses args, runs the selected command and returns the process exit
// code. Failures print a single "Error: <message>" line on stderr.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	cli := &CLI{}
	globals := &Global{Stdout: stdout, Stderr: stderr}

	defer func() {
		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}
			code = int(req)
		}
	}()

	parser, err := kong.New(cli,
		kong.Name("cvlocalize"),
		kong.Description("Render one CV per locale from a single multi-locale YAML document."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitRequest(c)) }),
		kong.Vars{"version": version.String()},
		kong.Bind(globals, cli),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return ferrors.NewCLIErrorAdapter(false, slog.Default()).
			Report(stderr, ferrors.InternalError("failed to build command line parser").WithCause(err).Build())
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return ferrors.NewCLIErrorAdapter(false, slog.Default()).
			Report(stderr, ferrors.ValidationError(err.Error()).WithCause(err).Build())
	}

	err = kctx.Run()
	return ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(stderr, err)
}
