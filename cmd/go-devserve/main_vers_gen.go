// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

const licenseText = `
This software is available under the MIT License at:
https://github.com/cactus/go-devserve

Portions of this software utilize third party libraries:
*   Runtime dependencies:
    ├── github.com/alecthomas/kong (MIT license)
    ├── github.com/cactus/mlog (MIT license)
    ├── github.com/coreos/go-systemd/v22 (Apache License 2.0)
    ├── github.com/fsnotify/fsnotify (BSD license)
    ├── github.com/pkg/browser (BSD license)
    ├── github.com/prometheus/client_golang (Apache License 2.0)
    ├── github.com/prometheus/common (Apache License 2.0)
    ├── github.com/xlab/treeprint (MIT license)
    ├── go.uber.org/automaxprocs (MIT license)
    └── golang.org/x/net (BSD license)

*   Test/Build only dependencies:
    └── gotest.tools/v3 (Apache License 2.0)
`
