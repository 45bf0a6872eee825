package client

import (
	"context"
)

// GetTrack returns a track's catalog metadata.
func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	var track Track
	if err := c.Get(ctx, "/tracks/"+id, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// GetAlbum returns an album's catalog metadata.
func (c *Client) GetAlbum(ctx context.Context, id string) (*Album, error) {
	var album Album
	if err := c.Get(ctx, "/albums/"+id, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// GetPlaylist returns a playlist's catalog metadata.
func (c *Client) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	var playlist Playlist
	if err := c.Get(ctx, "/playlists/"+id, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// GetArtist returns an artist's catalog metadata.
func (c *Client) GetArtist(ctx context.Context, id string) (*Artist, error) {
	var artist Artist
	if err := c.Get(ctx, "/artists/"+id, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}
