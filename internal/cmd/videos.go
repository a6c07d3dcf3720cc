package cmd

import (
	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/service"
)

var (
	videoList service.VideoListParams

	videoAdd           api.CreateVideoRequest
	videoAddVisibility string

	videoTitle       string
	videoDescription string
	videoVisibility  string

	videoForce       bool
	videoDriveFolder string
	videoImportTitle string
)

var videosCmd = &cobra.Command{
	Use:     "videos",
	Aliases: []string{"video", "v"},
	Short:   "Video library commands",
}

var videosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your videos",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewVideoService(env(cmd)).List(cmd.Context(), videoList)
	},
}

var videosShowCmd = &cobra.Command{
	Use:   "show <video-id>",
	Short: "Show a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewVideoService(env(cmd)).Show(cmd.Context(), args[0])
	},
}

var videosAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a video by URL (YouTube, Vimeo, direct link)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := videoAdd
		req.SourceURL = args[0]
		req.Visibility = api.Visibility(videoAddVisibility)
		return service.NewVideoService(env(cmd)).Add(cmd.Context(), req)
	},
}

var videosUpdateCmd = &cobra.Command{
	Use:   "update <video-id>",
	Short: "Update a video's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewVideoService(env(cmd)).Update(cmd.Context(), args[0], videoTitle, videoDescription, videoVisibility)
	},
}

var videosDeleteCmd = &cobra.Command{
	Use:   "delete <video-id>",
	Short: "Delete a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewVideoService(env(cmd)).Delete(cmd.Context(), args[0], videoForce)
	},
}

var videosSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search videos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewVideoService(env(cmd)).Search(cmd.Context(), args[0])
	},
}

var videosAnalyticsCmd = &cobra.Command{
	Use:   "analytics <video-id>",
	Short: "Show a video's analytics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewVideoService(env(cmd)).Analytics(cmd.Context(), args[0])
	},
}

var videosStreamCmd = &cobra.Command{
	Use:   "stream <video-id>",
	Short: "Print a video's stream URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewVideoService(env(cmd)).Stream(cmd.Context(), args[0])
	},
}

var videosDriveCmd = &cobra.Command{
	Use:   "drive",
	Short: "List videos in your connected Google Drive",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewVideoService(env(cmd)).Drive(cmd.Context(), videoDriveFolder)
	},
}

var videosImportCmd = &cobra.Command{
	Use:   "import <drive-file-id>",
	Short: "Import a Google Drive file into your library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewVideoService(env(cmd)).DriveImport(cmd.Context(), args[0], videoImportTitle)
	},
}

func init() {
	videosListCmd.Flags().StringVarP(&videoList.Search, "search", "s", "", "Filter by text")
	videosListCmd.Flags().StringVar(&videoList.SourceType, "source", "", "Source type: upload, youtube, vimeo, url, drive")
	videosListCmd.Flags().StringVar(&videoList.Visibility, "visibility", "", "Visibility: public, friends, private")
	videosListCmd.Flags().StringVar(&videoList.Sort, "sort", "recent", "Sort: recent, popular, name")
	videosListCmd.Flags().IntVar(&videoList.Page, "page", 1, "Page number")
	videosListCmd.Flags().IntVar(&videoList.PageSize, "page-size", 20, "Results per page")

	videosAddCmd.Flags().StringVarP(&videoAdd.Title, "title", "t", "", "Title (detected from the URL when omitted)")
	videosAddCmd.Flags().StringVarP(&videoAdd.Description, "description", "d", "", "Description")
	videosAddCmd.Flags().StringVar(&videoAdd.SourceType, "source", "", "Source type (detected from the URL when omitted)")
	videosAddCmd.Flags().StringVar(&videoAddVisibility, "visibility", "private", "Visibility: public, friends, private")

	videosUpdateCmd.Flags().StringVarP(&videoTitle, "title", "t", "", "New title")
	videosUpdateCmd.Flags().StringVarP(&videoDescription, "description", "d", "", "New description")
	videosUpdateCmd.Flags().StringVar(&videoVisibility, "visibility", "", "New visibility")

	videosDeleteCmd.Flags().BoolVarP(&videoForce, "force", "f", false, "Skip confirmation")
	videosDriveCmd.Flags().StringVar(&videoDriveFolder, "folder", "", "Drive folder ID")
	videosImportCmd.Flags().StringVarP(&videoImportTitle, "title", "t", "", "Title for the imported video")

	videosCmd.AddCommand(videosListCmd)
	videosCmd.AddCommand(videosShowCmd)
	videosCmd.AddCommand(videosAddCmd)
	videosCmd.AddCommand(videosUpdateCmd)
	videosCmd.AddCommand(videosDeleteCmd)
	videosCmd.AddCommand(videosSearchCmd)
	videosCmd.AddCommand(videosAnalyticsCmd)
	videosCmd.AddCommand(videosStreamCmd)
	videosCmd.AddCommand(videosDriveCmd)
	videosCmd.AddCommand(videosImportCmd)
}
