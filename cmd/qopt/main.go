package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/oqtopus-team/qopt/common"
	"github.com/oqtopus-team/qopt/core"
	"github.com/oqtopus-team/qopt/log"
	"github.com/oqtopus-team/qopt/routing"
	"github.com/oqtopus-team/qopt/transpiler"
)

var versionByBuildFlag string
var parser *flags.Parser
var app *App

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	app = &App{}
	setParser(app)
}

type App struct {
	DIContainerParameters *DIContainerParameters
	Conf                  *core.Conf
}

type DIContainerParameters struct {
	Router string `long:"router" description:"router-type" default:"sabre" choice:"sabre" choice:"trivial" env:"QOPT_ROUTER_TYPE"`
}

func setParser(app *App) {
	parser = flags.NewParser(app, flags.Default)
	parser.ShortDescription = "qopt"
	parser.LongDescription = "a quantum circuit compiler: optimization passes and topology-aware routing."
	parser.AddCommand("compile", "compile a circuit",
		"optimize an OpenQASM program and route it onto the target topology", newCompileCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func (a *App) provideDIContainer() (c *dig.Container, err error) {
	c = dig.New()
	err = c.Provide(func() (routing.Router, error) {
		switch a.DIContainerParameters.Router {
		case "sabre":
			return routing.NewSabreRouter(), nil
		case "trivial":
			return &routing.TrivialRouter{}, nil
		default:
			return routing.NewSabreRouter(), fmt.Errorf("%s is an unknown router", a.DIContainerParameters.Router)
		}
	})
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func(r routing.Router) *transpiler.Transpiler {
		return transpiler.NewTranspiler(r)
	})
	if err != nil {
		return &dig.Container{}, err
	}
	return
}

func main() {
	parse()
}

type compileCmd struct{}

func newCompileCmd() *compileCmd {
	return &compileCmd{}
}

func (c *compileCmd) Execute(args []string) error {
	logger, err := log.SetGlobal(app.Conf)
	if err != nil {
		fmt.Printf("Failed to setup logger. Reason:%s\n", err)
		return err
	}
	defer logger.Sync()
	core.SetVersion(app.Conf, versionByBuildFlag)

	if len(args) != 1 {
		return fmt.Errorf("compile takes exactly one qasm file, got %d arguments", len(args))
	}

	core.ResetSetting()
	registerSetting()
	if _, err := os.Stat(app.Conf.SettingPath); err != nil {
		zap.L().Info(fmt.Sprintf("no setting file at %s, using defaults", app.Conf.SettingPath))
	} else if err := core.ParseSettingFromPath(app.Conf.SettingPath); err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
		return err
	}

	source, err := common.ReadFile(args[0])
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read %s/reason:%s", args[0], err))
		return err
	}

	container, err := app.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up DI-Container. Reason:%s", err.Error()))
		return err
	}

	return container.Invoke(func(t *transpiler.Transpiler) error {
		if err := t.Setup(app.Conf); err != nil {
			zap.L().Error(fmt.Sprintf("failed to setup transpiler/reason:%s", err))
			return err
		}
		job := transpiler.NewCompileJob(source)
		if err := t.Compile(job); err != nil {
			zap.L().Error(fmt.Sprintf("failed to compile job %s/reason:%s", job.ID, err))
			return err
		}
		fmt.Println(job.Report.JSON())
		if app.Conf.EmitQASM {
			fmt.Println(job.Routed.QASM())
		}
		return nil
	})
}

func registerSetting() {
	core.RegisterSetting(transpiler.PassesSettingKey, transpiler.NewPassesSetting())
	core.RegisterSetting(transpiler.SabreSettingKey, transpiler.NewSabreSetting())
}
