package btsonicare

// WithAddress sets the BLE address of the handle to track (MAC on Linux)
func WithAddress(address string) func(*Sonicare) {
	return func(s *Sonicare) {
		s.address = address
	}
}

// WithTransport sets the BLE transport used to reach the handle
func WithTransport(transport Transport) func(*Sonicare) {
	return func(s *Sonicare) {
		s.transport = transport
	}
}

// WithCadenceConfig sets the poll cadence intervals
func WithCadenceConfig(cadence CadenceConfig) func(*Sonicare) {
	return func(s *Sonicare) {
		s.cadence = cadence
	}
}

// WithLogger sets a logger
func WithLogger(logger Logger) func(*Sonicare) {
	return func(s *Sonicare) {
		s.logger = logger
	}
}
