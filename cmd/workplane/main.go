package main

import (
	"k8s.io/klog/v2"

	"github.com/atelier-hq/workplane/cmd/workplane/helper"
	"github.com/atelier-hq/workplane/pkg/cronjob"
	sprintdb "github.com/atelier-hq/workplane/pkg/db/sprint"
	taskdb "github.com/atelier-hq/workplane/pkg/db/task"
)

// @title						Workplane API
// @version						1.0.0
// @description					This is the API server for Workplane, a multi-tenant project management backend.
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description					Login at /v1/auth/login and pass 'Bearer ${TOKEN}' to reach protected endpoints
func main() {
	configInit := helper.NewConfigInitializer()
	backendConfig := configInit.GetBackendConfig()

	if err := configInit.LoadDebugEnvironment(); err != nil {
		klog.Fatalf("Failed to load env: %s", err)
	}

	registerConfig, err := configInit.InitializeRegisterConfig()
	if err != nil {
		klog.Fatalf("Failed to register config: %s\n", err)
	}

	serverRunner := helper.NewServerRunner(backendConfig)

	cron := cronjob.NewManager(sprintdb.NewDBService(), taskdb.NewDBService())
	serverRunner.StartCron(cron)
	defer cron.Stop()

	serverRunner.StartServer(registerConfig)
}
