package services

// ServiceContainer bundles every service for wiring in the app package.
type ServiceContainer struct {
	AuthService    AuthService
	ProjectService ProjectService
	QuoteService   QuoteService
	MessageService MessageService
	FileService    FileService
	ReviewService  ReviewService
}
