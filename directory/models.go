package directory

// Client identifies one client of a broker as known to the user directory.
type Client struct {
	ID          string
	DisplayName string
}
