package request

// Source produces fully validated deployment requests. Consumers never see
// partial or optional fields; a Source either returns a finished request or
// an error.
type Source interface {
	Deployment() (*Deployment, error)
	HubSpokeDeployment() (*HubSpokeDeployment, error)
}
