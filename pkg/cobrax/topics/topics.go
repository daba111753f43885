// Package topics provides a pluggable, topic-based help system for Cobra
// CLI applications. Topics are markdown or plain-text files served from any
// fs.FS, typically an embed.FS so the documentation ships inside the binary.
package topics

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic represents one help topic
type Topic struct {
	Name    string
	Ext     string
	Content string
}

// Options configures the topic manager
type Options struct {
	// Extensions lists the file extensions considered topics.
	// Defaults to [".txt", ".md"].
	Extensions []string

	// Renderer formats topic content for terminal display.
	// Defaults to PlainRenderer.
	Renderer Renderer
}

// TopicManager serves help topics from a file system
type TopicManager struct {
	fsys         fs.FS
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	extensions   []string
	renderer     Renderer
}

// New creates a TopicManager over fsys with default options
func New(fsys fs.FS) *TopicManager {
	return NewWithOptions(fsys, Options{})
}

// NewWithOptions creates a TopicManager over fsys with custom options
func NewWithOptions(fsys fs.FS, opts Options) *TopicManager {
	tm := &TopicManager{
		fsys:       fsys,
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(tm.extensions) == 0 {
		tm.extensions = []string{".txt", ".md"}
	}
	if tm.renderer == nil {
		tm.renderer = &PlainRenderer{}
	}
	return tm
}

// scanTopics walks the file system and loads every supported topic file
func (tm *TopicManager) scanTopics() error {
	return fs.WalkDir(tm.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		ext := filepath.Ext(path)
		supported := false
		for _, validExt := range tm.extensions {
			if ext == validExt {
				supported = true
				break
			}
		}
		if !supported {
			return nil
		}

		content, err := fs.ReadFile(tm.fsys, path)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(path), ext)
		tm.topics[name] = &Topic{Name: name, Ext: ext, Content: string(content)}
		return nil
	})
}

// GetTopic retrieves a topic by name. Flag-style names ("--dry-run") map to
// the bare topic name, then to an "option-" prefixed one.
func (tm *TopicManager) GetTopic(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	if topic, exists := tm.topics[name]; exists {
		return topic, true
	}
	topic, exists := tm.topics["option-"+name]
	return topic, exists
}

// ListTopics returns all available topic names
func (tm *TopicManager) ListTopics() []string {
	names := make([]string, 0, len(tm.topics))
	for name := range tm.topics {
		names = append(names, name)
	}
	return names
}

// Initialize sets up the topic-based help system with default options
func Initialize(rootCmd *cobra.Command, fsys fs.FS) error {
	return InitializeWithOptions(rootCmd, fsys, Options{})
}

// InitializeWithOptions installs a "help" command on rootCmd that serves
// both command help and topics, and routes the --help flag through the
// topic lookup as well.
func InitializeWithOptions(rootCmd *cobra.Command, fsys fs.FS, opts Options) error {
	tm := NewWithOptions(fsys, opts)
	if err := tm.scanTopics(); err != nil {
		return fmt.Errorf("failed to scan topics: %w", err)
	}

	tm.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, tm.ListTopics()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				tm.originalHelp(rootCmd, []string{})
				return
			}

			if args[0] == "topics" {
				tm.printTopicList(rootCmd.Name())
				return
			}

			if topic, exists := tm.GetTopic(args[0]); exists {
				fmt.Print(tm.renderer.Render(topic.Content, topic.Ext))
				return
			}

			tm.originalHelp(rootCmd, args)
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, exists := tm.GetTopic(args[0]); exists {
				fmt.Print(tm.renderer.Render(topic.Content, topic.Ext))
				return
			}
		}
		tm.originalHelp(cmd, args)
	})

	return nil
}

func (tm *TopicManager) printTopicList(appName string) {
	names := tm.ListTopics()
	if len(names) == 0 {
		fmt.Println("No help topics available.")
		return
	}
	sort.Strings(names)

	var options []string
	var general []string
	for _, name := range names {
		if strings.HasPrefix(name, "option-") {
			options = append(options, strings.TrimPrefix(name, "option-"))
		} else {
			general = append(general, name)
		}
	}

	fmt.Println("Available help topics:")
	if len(general) > 0 {
		fmt.Println("\nGeneral topics:")
		for _, name := range general {
			fmt.Printf("  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Println("\nOption topics:")
		for _, name := range options {
			fmt.Printf("  --%s\n", name)
		}
	}
	fmt.Printf("\nUse '%s help <topic>' to read about a specific topic.\n", appName)
}
