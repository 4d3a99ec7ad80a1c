package davclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/emersion/go-webdav/carddav"
)

// ErrNoAddressBook is returned when discovery finds no address book.
var ErrNoAddressBook = errors.New("no address book found")

// Discover fills in the endpoint's base path when it is empty: it asks the
// server for the current user principal, follows it to the address-book
// home set and picks the first address book listed there. An endpoint that
// already has a base path is returned unchanged.
func Discover(ctx context.Context, endpoint Endpoint, opts Options) (Endpoint, error) {
	if endpoint.BasePath != "" {
		return endpoint, nil
	}
	if err := endpoint.Validate(); err != nil {
		return endpoint, err
	}
	opts = opts.withDefaults()
	logger := opts.Logger

	base := endpoint.BaseURL()
	client, err := carddav.NewClient(newHTTPClient(endpoint, opts), base.String())
	if err != nil {
		return endpoint, fmt.Errorf("failed to create CardDAV client: %w", err)
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return endpoint, fmt.Errorf("could not find current-user-principal: %w", err)
	}
	logger.Debug("found principal", "principal", principal)

	homeSet, err := client.FindAddressBookHomeSet(ctx, principal)
	if err != nil {
		return endpoint, fmt.Errorf("failed to get addressbook-home-set: %w", err)
	}
	logger.Debug("found address book home", "home_set", homeSet)

	books, err := client.FindAddressBooks(ctx, homeSet)
	if err != nil {
		return endpoint, fmt.Errorf("failed to list address books: %w", err)
	}
	if len(books) == 0 {
		return endpoint, fmt.Errorf("%w under %s", ErrNoAddressBook, homeSet)
	}

	logger.Info("discovered address book",
		"path", books[0].Path,
		"name", books[0].Name,
		"candidates", len(books))

	endpoint.BasePath = books[0].Path
	return endpoint, nil
}
