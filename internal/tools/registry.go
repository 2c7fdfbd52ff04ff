// Package tools assembles the built-in tool set of a session.
package tools

import (
	"io"
	"net/http"
	"time"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/history"
	"github.com/ChamsBouzaiene/reactchain/internal/plugin"
	"github.com/ChamsBouzaiene/reactchain/internal/sandbox"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/api"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/control"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/docs"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/files"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/save"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/script"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/web"
)

// Options carries the collaborators the tools need. Zero values are usable:
// tools whose collaborator is missing decline at Init.
type Options struct {
	Session   *engine.Session
	Installer *plugin.Installer
	Runner    sandbox.Runner
	Recall    *history.RecallIndex
	Guard     *files.Guard

	BingAPIKey    string
	BingEndpoint  string
	GraphQLList   string
	SnippetDir    string
	ScriptTimeout time.Duration
	GUI           bool

	Client *http.Client
	Out    io.Writer
}

// Register adds every built-in tool to the session's registry.
func Register(opts Options) {
	sess := opts.Session
	reg := sess.Tools()
	client := opts.Client
	if client == nil {
		client = web.DefaultClient
	}

	retriever := &web.Retriever{Session: sess, Client: client}
	display := &web.Display{GUI: opts.GUI, Out: opts.Out, Open: web.OpenBrowser}
	documents := &docs.Documents{Session: sess, Client: client, Guard: opts.Guard}
	saver := &save.Saver{Dir: opts.SnippetDir, GUI: opts.GUI, Open: web.OpenBrowser}

	all := []engine.Tool{
		&web.Search{APIKey: opts.BingAPIKey, Endpoint: opts.BingEndpoint, Client: client},
		script.NewCalculatorTool(),
		web.NewRetrieveTool(retriever),
		web.NewPageSourceTool(retriever),
		web.NewMetadataTool(sess, client),
		web.NewImageTool(display),
		web.NewVideoTool(display),
		web.NewFindGraphQLTool(retriever, opts.GraphQLList),
		&script.Script{Session: sess, Runner: opts.Runner, Timeout: opts.ScriptTimeout},
		api.NewAPICallTool(&api.APICall{Session: sess, Client: client}),
		api.NewGraphQLTool(&api.GraphQL{Session: sess, Client: client}),
		control.NewListTool(sess),
		control.NewEnableTool(sess),
		control.NewDisableTool(sess),
		control.NewSetTool(sess),
		control.NewGetTool(sess),
		control.NewResetTool(sess),
		control.NewRecallTool(opts.Recall),
		files.NewReadFileTool(sess, opts.Guard),
	}
	if opts.Installer != nil {
		all = append(all, api.NewInstallTool(opts.Installer))
	}
	all = append(all, documents.Tools()...)
	all = append(all, saver.Tools()...)

	for _, t := range all {
		reg.Register(t)
	}
}
