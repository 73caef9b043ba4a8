package services

// ServiceContainer holds instances of all the application services.
type ServiceContainer struct {
	Importer ExchangeRateImportSvc
	Job      ForexJobSvc
}
